package catalog

import (
	"github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every catalog key
const DefaultNamespace = "neighborly"

// NewRedis creates a new Redis-backed catalog repository
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client:    client,
		Namespace: DefaultNamespace,
	})
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/redis/go-redis/v9"
)

// Data is the stored form of a document
type Data struct {
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
	namespace    string
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider
	Namespace    string
}

// NewRedisRepository creates a new Redis-backed catalog repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	if cfg.TimeProvider == nil {
		cfg.TimeProvider = systemClock{}
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &redisRepo{
		client:       cfg.Client,
		timeProvider: cfg.TimeProvider,
		namespace:    namespace,
	}
}

// key generates the Redis key for a document
func (r *redisRepo) key(name string) string {
	return fmt.Sprintf("%s:catalog:%s", r.namespace, name)
}

// indexKey is the set of every stored document name
func (r *redisRepo) indexKey() string {
	return fmt.Sprintf("%s:catalog", r.namespace)
}

// Put creates or replaces a document
func (r *redisRepo) Put(ctx context.Context, doc *Document) error {
	if err := validateDocument(doc); err != nil {
		return err
	}

	data := Data{
		Name:      doc.Name,
		Body:      string(doc.Body),
		UpdatedAt: r.timeProvider.Now(),
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(doc.Name), string(jsonData), 0)
	pipe.SAdd(ctx, r.indexKey(), doc.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store document in Redis: %w", err)
	}

	doc.UpdatedAt = data.UpdatedAt
	return nil
}

// Get retrieves a document by name
func (r *redisRepo) Get(ctx context.Context, name string) (*Document, error) {
	if name == "" {
		return nil, simerr.InvalidArgument("document name is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err == redis.Nil {
		return nil, simerr.NotFoundf("document '%s' not found", name).
			WithMeta("document", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document from Redis: %w", err)
	}

	return toDocument(jsonData)
}

// List returns every document sorted by name. Index entries whose document
// has gone are skipped.
func (r *redisRepo) List(ctx context.Context) ([]*Document, error) {
	names, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents from Redis: %w", err)
	}
	if len(names) == 0 {
		return []*Document{}, nil
	}
	sort.Strings(names)

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = r.key(name)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get documents from Redis: %w", err)
	}

	docs := make([]*Document, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		doc, err := toDocument([]byte(raw))
		if err != nil {
			return nil, simerr.Wrapf(err, "document %s", names[i]).WithMeta("document", names[i])
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Delete removes a document
func (r *redisRepo) Delete(ctx context.Context, name string) error {
	if name == "" {
		return simerr.InvalidArgument("document name is required")
	}

	pipe := r.client.Pipeline()
	del := pipe.Del(ctx, r.key(name))
	pipe.SRem(ctx, r.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete document from Redis: %w", err)
	}

	if del.Val() == 0 {
		return simerr.NotFoundf("document '%s' not found", name).
			WithMeta("document", name)
	}
	return nil
}

func toDocument(jsonData []byte) (*Document, error) {
	var data Data
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	return &Document{
		Name:      data.Name,
		Body:      []byte(data.Body),
		UpdatedAt: data.UpdatedAt,
	}, nil
}

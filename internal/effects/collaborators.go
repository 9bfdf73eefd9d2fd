package effects

//go:generate mockgen -destination=mock/mock.go -package=mockeffects -source=collaborators.go

import "github.com/ShiJbey/neighborly/internal/entities"

// RuleSink receives social rules emitted by AddSocialRule effects
type RuleSink interface {
	RegisterRule(rule *SocialRule) error
	DeregisterRule(rule *SocialRule)
}

// TraitAttacher attaches and detaches traits by id
type TraitAttacher interface {
	Attach(target *entities.Entity, traitID string) error
	Detach(target *entities.Entity, traitID string) error
}

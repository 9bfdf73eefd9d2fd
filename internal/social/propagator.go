package social

import (
	"log/slog"
	"sync"

	"github.com/ShiJbey/neighborly/internal/effects"
	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/events"
	"github.com/ShiJbey/neighborly/internal/stats"
)

// PropagatorConfig holds the collaborators of a Propagator
type PropagatorConfig struct {
	// Traits lets rule effects attach traits to relationships
	Traits effects.TraitAttacher
	Bus    *events.Bus
	Logger *slog.Logger
}

// Propagator keeps each owner's active social rules and applies them to the
// owner's outgoing relationships. The mutex guards rule bookkeeping; effect
// application runs on the caller's goroutine.
type Propagator struct {
	mu      sync.Mutex
	rules   map[string][]*effects.SocialRule
	applied map[string]map[stats.Source]struct{}

	traits effects.TraitAttacher
	bus    *events.Bus
	logger *slog.Logger
}

// NewPropagator creates a propagator
func NewPropagator(cfg *PropagatorConfig) *Propagator {
	p := &Propagator{
		rules:   make(map[string][]*effects.SocialRule),
		applied: make(map[string]map[stats.Source]struct{}),
		logger:  slog.Default(),
	}
	if cfg == nil {
		return p
	}
	if cfg.Logger != nil {
		p.logger = cfg.Logger
	}
	p.traits = cfg.Traits
	p.bus = cfg.Bus
	return p
}

// SetTraitAttacher wires the trait manager after construction
func (p *Propagator) SetTraitAttacher(traits effects.TraitAttacher) {
	p.traits = traits
}

func (p *Propagator) effectContext(src stats.Source) *effects.Context {
	return &effects.Context{Source: src, Rules: p, Traits: p.traits}
}

// RegisterRule records the rule for its owner and applies it to every
// existing outgoing relationship that satisfies its preconditions
func (p *Propagator) RegisterRule(rule *effects.SocialRule) error {
	if rule == nil || rule.Owner == nil {
		return simerr.Internalf("social rule registered without an owner")
	}
	if rule.Source.IsZero() {
		return simerr.Internalf("social rule on %s has no source", rule.Owner.ID)
	}

	ownerID := rule.Owner.ID
	p.mu.Lock()
	for _, existing := range p.rules[ownerID] {
		if existing.Same(rule) {
			p.mu.Unlock()
			return simerr.AlreadyExistsf("rule %s is already registered on %s", rule.Source, ownerID).
				WithMeta("entity", ownerID)
		}
	}
	p.rules[ownerID] = append(p.rules[ownerID], rule)
	p.mu.Unlock()

	p.logger.Debug("registered social rule", "entity", ownerID, "rule", rule.Description, "source", rule.Source.String())

	for _, rel := range rule.Owner.Relationships.AllOutgoing() {
		if !rule.Check(rel) {
			continue
		}
		if err := p.apply(rule, rel); err != nil {
			return err
		}
	}
	return nil
}

// DeregisterRule removes the rule's effects from every outgoing relationship
// of the owner and forgets the rule. Removal does not re-check preconditions
// and is safe to repeat.
func (p *Propagator) DeregisterRule(rule *effects.SocialRule) {
	if rule == nil || rule.Owner == nil {
		return
	}

	ownerID := rule.Owner.ID
	p.mu.Lock()
	list := p.rules[ownerID]
	for i, existing := range list {
		if existing.Same(rule) {
			p.rules[ownerID] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(p.rules[ownerID]) == 0 {
		delete(p.rules, ownerID)
	}
	p.mu.Unlock()

	for _, rel := range rule.Owner.Relationships.AllOutgoing() {
		p.remove(rule, rel)
	}

	p.logger.Debug("deregistered social rule", "entity", ownerID, "rule", rule.Description, "source", rule.Source.String())
}

// OnRelationshipCreated applies the owner's rules, in registration order, to
// a newly created relationship. If one fails, the rules applied before it are
// removed again.
func (p *Propagator) OnRelationshipCreated(rel *entities.Entity) error {
	if rel == nil || rel.Edge == nil {
		return simerr.InvalidArgument("entity is not a relationship")
	}

	var applied []*effects.SocialRule
	for _, rule := range p.Rules(rel.Edge.Owner) {
		if !rule.Check(rel) {
			continue
		}
		if err := p.apply(rule, rel); err != nil {
			for i := len(applied) - 1; i >= 0; i-- {
				p.remove(applied[i], rel)
			}
			return err
		}
		applied = append(applied, rule)
	}
	return nil
}

// Reevaluate re-checks every rule of owner against each outgoing
// relationship. Rules whose preconditions stopped holding are removed and
// rules that now hold are applied.
func (p *Propagator) Reevaluate(owner *entities.Entity) error {
	rules := p.Rules(owner)
	for _, rel := range owner.Relationships.AllOutgoing() {
		for _, rule := range rules {
			holds := rule.Check(rel)
			applied := p.IsApplied(rule, rel)

			switch {
			case applied && !holds:
				p.remove(rule, rel)
			case !applied && holds:
				if err := p.apply(rule, rel); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Rules returns owner's active rules in registration order
func (p *Propagator) Rules(owner *entities.Entity) []*effects.SocialRule {
	p.mu.Lock()
	defer p.mu.Unlock()

	list := p.rules[owner.ID]
	out := make([]*effects.SocialRule, len(list))
	copy(out, list)
	return out
}

// IsApplied reports whether rule's effects are currently on rel
func (p *Propagator) IsApplied(rule *effects.SocialRule, rel *entities.Entity) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.applied[rel.ID][rule.Source]
	return ok
}

// Forget drops bookkeeping for a relationship that no longer exists
func (p *Propagator) Forget(rel *entities.Entity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.applied, rel.ID)
}

// ForgetOwner drops every rule held by owner without touching relationships
func (p *Propagator) ForgetOwner(owner *entities.Entity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.rules, owner.ID)
}

func (p *Propagator) apply(rule *effects.SocialRule, rel *entities.Entity) error {
	ctx := p.effectContext(rule.Source)
	for i, e := range rule.Effects {
		if err := e.Apply(ctx, rel); err != nil {
			for j := i; j >= 0; j-- {
				_ = rule.Effects[j].Remove(ctx, rel)
			}
			return simerr.WrapWithCode(err, simerr.CodeInternal, "failed to apply social rule").
				WithMeta("entity", rule.Owner.ID).
				WithMeta("relationship", rel.ID).
				WithMeta("effect", i)
		}
	}

	p.mu.Lock()
	if p.applied[rel.ID] == nil {
		p.applied[rel.ID] = make(map[stats.Source]struct{})
	}
	p.applied[rel.ID][rule.Source] = struct{}{}
	p.mu.Unlock()

	p.emit(events.EventTypeRuleApplied, rule, rel)
	return nil
}

func (p *Propagator) remove(rule *effects.SocialRule, rel *entities.Entity) {
	ctx := p.effectContext(rule.Source)
	for i := len(rule.Effects) - 1; i >= 0; i-- {
		if err := rule.Effects[i].Remove(ctx, rel); err != nil {
			p.logger.Warn("failed to remove social rule effect",
				"entity", rule.Owner.ID, "relationship", rel.ID, "effect", i, "error", err)
		}
	}

	p.mu.Lock()
	_, was := p.applied[rel.ID][rule.Source]
	delete(p.applied[rel.ID], rule.Source)
	p.mu.Unlock()

	if was {
		p.emit(events.EventTypeRuleRemoved, rule, rel)
	}
}

func (p *Propagator) emit(t events.EventType, rule *effects.SocialRule, rel *entities.Entity) {
	if p.bus == nil {
		return
	}
	e := &events.RuleEvent{
		BaseEvent:    events.BaseEvent{Type: t, Entity: rule.Owner},
		Relationship: rel,
		Description:  rule.Description,
	}
	if err := p.bus.Emit(e); err != nil {
		p.logger.Warn("event listener failed", "event", t, "error", err)
	}
}

package traits

import (
	"log/slog"

	"github.com/ShiJbey/neighborly/internal/effects"
	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/events"
	"github.com/ShiJbey/neighborly/internal/stats"
)

// ManagerConfig holds the collaborators of a Manager
type ManagerConfig struct {
	Library *Library
	Arena   *stats.SourceArena
	Rules   effects.RuleSink
	Bus     *events.Bus
	Logger  *slog.Logger
}

// Manager attaches and detaches traits, applying and reversing their effects.
// It is not safe for concurrent mutation; the simulation drives it from one
// goroutine.
type Manager struct {
	library *Library
	arena   *stats.SourceArena
	rules   effects.RuleSink
	bus     *events.Bus
	logger  *slog.Logger
}

// NewManager creates a trait manager
func NewManager(cfg *ManagerConfig) *Manager {
	m := &Manager{
		library: NewLibrary(),
		arena:   stats.NewSourceArena(),
		logger:  slog.Default(),
	}
	if cfg == nil {
		return m
	}
	if cfg.Library != nil {
		m.library = cfg.Library
	}
	if cfg.Arena != nil {
		m.arena = cfg.Arena
	}
	if cfg.Logger != nil {
		m.logger = cfg.Logger
	}
	m.rules = cfg.Rules
	m.bus = cfg.Bus
	return m
}

// Library returns the trait catalogue
func (m *Manager) Library() *Library {
	return m.library
}

// SetRuleSink wires the social rule propagator after construction
func (m *Manager) SetRuleSink(rules effects.RuleSink) {
	m.rules = rules
}

func (m *Manager) effectContext() *effects.Context {
	return &effects.Context{Rules: m.rules, Traits: m}
}

// Attach gives target the trait permanently
func (m *Manager) Attach(target *entities.Entity, traitID string) error {
	return m.attach(target, traitID, entities.Permanent)
}

// AttachFor gives target the trait for the given number of ticks
func (m *Manager) AttachFor(target *entities.Entity, traitID string, ticks int) error {
	if ticks <= 0 {
		return simerr.InvalidArgumentf("duration must be positive, got %d", ticks)
	}
	return m.attach(target, traitID, ticks)
}

func (m *Manager) attach(target *entities.Entity, traitID string, remaining int) error {
	if target == nil {
		return simerr.InvalidArgument("target is required")
	}

	trait, err := m.library.Get(traitID)
	if err != nil {
		return err
	}

	if target.HasTrait(traitID) {
		return simerr.AlreadyExistsf("%s already has trait %q", target.ID, traitID).
			WithMeta("entity", target.ID).
			WithMeta("trait", traitID)
	}

	if held, ok := m.conflict(target, trait); ok {
		return simerr.Conflictf("trait %q conflicts with %q on %s", traitID, held, target.ID).
			WithMeta("entity", target.ID).
			WithMeta("trait", traitID).
			WithMeta("conflicts_with", held)
	}

	for i, e := range trait.Effects {
		v, ok := e.(effects.Validator)
		if !ok {
			continue
		}
		if err := v.Validate(target); err != nil {
			return simerr.WrapWithCode(err, simerr.CodeValidation, "trait "+traitID+" cannot apply to "+target.ID).
				WithMeta("trait", traitID).
				WithMeta("effect", i)
		}
	}

	record := &entities.TraitRecord{
		ID:          traitID,
		Description: trait.Description,
		Remaining:   remaining,
	}
	target.Traits.Insert(record)

	ctx := m.effectContext()
	for i, e := range trait.Effects {
		src := m.arena.Allocate()
		record.Sources = append(record.Sources, src)

		if err := e.Apply(ctx.WithSource(src), target); err != nil {
			m.rollback(target, trait, record)
			return simerr.WrapWithCode(err, simerr.CodeInternal, "failed to apply effect of "+traitID).
				WithMeta("entity", target.ID).
				WithMeta("trait", traitID).
				WithMeta("effect", i)
		}
		m.logger.Debug("applied effect", "entity", target.ID, "trait", traitID, "effect", e.Description(), "source", src.String())
	}

	m.emit(events.NewTraitEvent(events.EventTypeTraitAttached, target, traitID))
	return nil
}

// rollback undoes a partially applied attach
func (m *Manager) rollback(target *entities.Entity, trait *Trait, record *entities.TraitRecord) {
	ctx := m.effectContext()
	for i := len(record.Sources) - 1; i >= 0; i-- {
		if err := trait.Effects[i].Remove(ctx.WithSource(record.Sources[i]), target); err != nil {
			m.logger.Error("rollback failed", "entity", target.ID, "trait", trait.ID, "effect", i, "error", err)
		}
		m.arena.Release(record.Sources[i])
	}
	target.Traits.Delete(trait.ID)
}

// conflict returns an attached trait that conflicts with t in either direction
func (m *Manager) conflict(target *entities.Entity, t *Trait) (string, bool) {
	for _, held := range target.Traits.IDs() {
		if t.Conflicts(held) {
			return held, true
		}
		if other, err := m.library.Get(held); err == nil && other.Conflicts(t.ID) {
			return held, true
		}
	}
	return "", false
}

// CanAttach reports whether Attach would succeed on the trait and conflict
// checks. Effect validation is not run.
func (m *Manager) CanAttach(target *entities.Entity, traitID string) bool {
	trait, err := m.library.Get(traitID)
	if err != nil || target.HasTrait(traitID) {
		return false
	}
	_, conflicted := m.conflict(target, trait)
	return !conflicted
}

// Detach removes the trait from target, reversing its effects in reverse
// declaration order
func (m *Manager) Detach(target *entities.Entity, traitID string) error {
	if err := m.detach(target, traitID); err != nil {
		return err
	}
	m.emit(events.NewTraitEvent(events.EventTypeTraitDetached, target, traitID))
	return nil
}

func (m *Manager) detach(target *entities.Entity, traitID string) error {
	if target == nil {
		return simerr.InvalidArgument("target is required")
	}

	record, ok := target.Traits.Get(traitID)
	if !ok {
		return simerr.NotFoundf("%s does not have trait %q", target.ID, traitID).
			WithMeta("entity", target.ID).
			WithMeta("trait", traitID)
	}

	trait, err := m.library.Get(traitID)
	if err != nil {
		return simerr.WrapWithCode(err, simerr.CodeInternal, "attached trait is missing from the library")
	}
	if len(record.Sources) != len(trait.Effects) {
		return simerr.Internalf("trait %q on %s has %d sources for %d effects",
			traitID, target.ID, len(record.Sources), len(trait.Effects))
	}

	ctx := m.effectContext()
	var firstErr error
	for i := len(trait.Effects) - 1; i >= 0; i-- {
		if err := trait.Effects[i].Remove(ctx.WithSource(record.Sources[i]), target); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	target.Traits.Delete(traitID)
	for _, src := range record.Sources {
		m.arena.Release(src)
	}

	if firstErr != nil {
		return simerr.WrapWithCode(firstErr, simerr.CodeInternal, "failed to remove effect of "+traitID).
			WithMeta("entity", target.ID).
			WithMeta("trait", traitID)
	}
	return nil
}

// DetachAll removes every trait from target, most recent first
func (m *Manager) DetachAll(target *entities.Entity) error {
	ids := target.Traits.IDs()
	for i := len(ids) - 1; i >= 0; i-- {
		if err := m.Detach(target, ids[i]); err != nil {
			return err
		}
	}
	return nil
}

// Tick counts down timed traits on each target, detaching the ones that run
// out. It returns the number of traits that expired.
func (m *Manager) Tick(targets ...*entities.Entity) (int, error) {
	expired := 0
	for _, target := range targets {
		for _, record := range target.Traits.Records() {
			if !record.HasDuration() {
				continue
			}
			// an earlier expiry may have cascaded into this one
			if cur, ok := target.Traits.Get(record.ID); !ok || cur != record {
				continue
			}
			record.Remaining--
			if record.Remaining > 0 {
				continue
			}
			if err := m.detach(target, record.ID); err != nil {
				return expired, err
			}
			expired++
			m.logger.Debug("trait expired", "entity", target.ID, "trait", record.ID)
			m.emit(events.NewTraitEvent(events.EventTypeTraitExpired, target, record.ID))
		}
	}
	return expired, nil
}

func (m *Manager) emit(e events.Event) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Emit(e); err != nil {
		m.logger.Warn("event listener failed", "event", e.GetType(), "error", err)
	}
}

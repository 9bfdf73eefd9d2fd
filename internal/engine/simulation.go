// Package engine wires the stat, trait, rule and relationship components into
// one simulation object
package engine

import (
	"log/slog"

	"github.com/ShiJbey/neighborly/internal/effects"
	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/events"
	"github.com/ShiJbey/neighborly/internal/lifeevents"
	"github.com/ShiJbey/neighborly/internal/metrics"
	"github.com/ShiJbey/neighborly/internal/probability"
	"github.com/ShiJbey/neighborly/internal/random"
	"github.com/ShiJbey/neighborly/internal/relationships"
	entityrepo "github.com/ShiJbey/neighborly/internal/repositories/entities"
	"github.com/ShiJbey/neighborly/internal/social"
	"github.com/ShiJbey/neighborly/internal/stats"
	"github.com/ShiJbey/neighborly/internal/traits"
	"github.com/ShiJbey/neighborly/internal/uuid"
)

// DefaultLifeEventChance is the per-step chance that a character rolls for a
// life event
const DefaultLifeEventChance = 0.1

// Config holds the collaborators of a simulation. Nil fields get defaults.
type Config struct {
	Registry   *effects.Registry
	Library    *traits.Library
	Store      entityrepo.Repository
	Generator  uuid.Generator
	Random     random.Source
	Bus        *events.Bus
	Metrics    *metrics.Recorder
	Logger     *slog.Logger
	LifeEvents []*lifeevents.LifeEvent

	// LifeEventChance of zero uses DefaultLifeEventChance. A negative value
	// disables life events.
	LifeEventChance float64
}

// Simulation is the process-wide engine state. Build one with New and pass
// it by reference; all mutation happens on the caller's goroutine.
type Simulation struct {
	registry   *effects.Registry
	library    *traits.Library
	arena      *stats.SourceArena
	store      entityrepo.Repository
	generator  uuid.Generator
	rng        random.Source
	bus        *events.Bus
	metrics    *metrics.Recorder
	logger     *slog.Logger
	traits     *traits.Manager
	propagator *social.Propagator
	directory  *relationships.Directory

	lifeEvents      []*lifeevents.LifeEvent
	lifeEventChance float64
	step            int
}

// New creates a simulation
func New(cfg *Config) *Simulation {
	if cfg == nil {
		cfg = &Config{}
	}

	s := &Simulation{
		registry:        cfg.Registry,
		library:         cfg.Library,
		arena:           stats.NewSourceArena(),
		store:           cfg.Store,
		generator:       cfg.Generator,
		rng:             cfg.Random,
		bus:             cfg.Bus,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
		lifeEvents:      cfg.LifeEvents,
		lifeEventChance: cfg.LifeEventChance,
	}
	if s.registry == nil {
		s.registry = effects.NewDefaultRegistry()
	}
	if s.library == nil {
		s.library = traits.NewLibrary()
	}
	if s.store == nil {
		s.store = entityrepo.NewInMemoryRepository()
	}
	if s.generator == nil {
		s.generator = uuid.NewGoogleUUIDGenerator()
	}
	if s.rng == nil {
		s.rng = random.NewFromClock()
	}
	if s.bus == nil {
		s.bus = events.NewBusWithLogger(cfg.Logger)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.lifeEventChance == 0 {
		s.lifeEventChance = DefaultLifeEventChance
	}
	if s.metrics != nil {
		s.metrics.Attach(s.bus)
	}

	s.propagator = social.NewPropagator(&social.PropagatorConfig{
		Bus:    s.bus,
		Logger: s.logger,
	})
	s.traits = traits.NewManager(&traits.ManagerConfig{
		Library: s.library,
		Arena:   s.arena,
		Rules:   s.propagator,
		Bus:     s.bus,
		Logger:  s.logger,
	})
	s.propagator.SetTraitAttacher(s.traits)
	s.directory = relationships.NewDirectory(&relationships.DirectoryConfig{
		Listener:  s.propagator,
		Removal:   s.propagator,
		Generator: s.generator,
		Bus:       s.bus,
		Logger:    s.logger,
	})

	return s
}

func (s *Simulation) Registry() *effects.Registry         { return s.registry }
func (s *Simulation) Library() *traits.Library            { return s.library }
func (s *Simulation) Store() entityrepo.Repository        { return s.store }
func (s *Simulation) Bus() *events.Bus                    { return s.bus }
func (s *Simulation) Traits() *traits.Manager             { return s.traits }
func (s *Simulation) Propagator() *social.Propagator      { return s.propagator }
func (s *Simulation) Directory() *relationships.Directory { return s.directory }
func (s *Simulation) Arena() *stats.SourceArena           { return s.arena }
func (s *Simulation) StepCount() int                      { return s.step }

// AttachTrait gives target a permanent trait. Owners of relationships that
// point at target have their rules re-checked, since target-side
// preconditions may have changed.
func (s *Simulation) AttachTrait(target *entities.Entity, traitID string) error {
	if err := s.traits.Attach(target, traitID); err != nil {
		return err
	}
	return s.reevaluateObservers(target)
}

// AttachTraitFor gives target a trait that expires after ticks steps
func (s *Simulation) AttachTraitFor(target *entities.Entity, traitID string, ticks int) error {
	if err := s.traits.AttachFor(target, traitID, ticks); err != nil {
		return err
	}
	return s.reevaluateObservers(target)
}

// DetachTrait removes a trait and every effect it applied
func (s *Simulation) DetachTrait(target *entities.Entity, traitID string) error {
	if err := s.traits.Detach(target, traitID); err != nil {
		return err
	}
	return s.reevaluateObservers(target)
}

func (s *Simulation) reevaluateObservers(target *entities.Entity) error {
	for _, rel := range target.Relationships.AllIncoming() {
		if err := s.propagator.Reevaluate(rel.Edge.Owner); err != nil {
			return err
		}
	}
	return nil
}

// GetStatValue returns the current value of a stat
func (s *Simulation) GetStatValue(e *entities.Entity, statID string) (float64, error) {
	stat, err := s.stat(e, statID)
	if err != nil {
		return 0, err
	}
	return stat.Value(), nil
}

// GetNormalizedValue returns a bounded stat's value projected onto [0, 1]
func (s *Simulation) GetNormalizedValue(e *entities.Entity, statID string) (float64, error) {
	stat, err := s.stat(e, statID)
	if err != nil {
		return 0, err
	}
	return stat.Normalized()
}

func (s *Simulation) stat(e *entities.Entity, statID string) (*stats.Stat, error) {
	if e == nil {
		return nil, simerr.InvalidArgument("entity cannot be nil")
	}
	if stat, err := e.GetStat(statID); err == nil {
		return stat, nil
	}
	if stat, err := e.Skills.Get(statID); err == nil {
		return stat, nil
	}
	return nil, simerr.NotFoundf("%s has no stat %q", e.ID, statID).
		WithMeta("entity", e.ID).
		WithMeta("stat", statID)
}

// EvaluateProbability combines considerations into one probability
func (s *Simulation) EvaluateProbability(base float64, scores ...float64) float64 {
	return probability.Evaluate(base, scores...)
}

// GetOrCreateRelationship returns the directed relationship owner -> target,
// creating it and applying owner's rules on first use
func (s *Simulation) GetOrCreateRelationship(owner, target *entities.Entity) (*entities.Entity, error) {
	return s.directory.GetOrCreate(owner, target)
}

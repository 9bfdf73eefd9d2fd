package engine

import (
	"context"

	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/events"
	"github.com/ShiJbey/neighborly/internal/stats"
)

// CharacterSpec describes a character to spawn
type CharacterSpec struct {
	Name      string
	Sex       entities.Sex
	LifeStage entities.LifeStage

	// Traits are attached first, in order
	Traits []string
	// Parents, if set, pass on inheritable traits
	ParentA *entities.Entity
	ParentB *entities.Entity
	// RandomTraits more are picked by spawn frequency
	RandomTraits int
}

// SpawnCharacter creates a character, gives it its traits and adds it to the
// store. A failing trait leaves nothing behind.
func (s *Simulation) SpawnCharacter(ctx context.Context, spec *CharacterSpec) (*entities.Entity, error) {
	if spec == nil {
		spec = &CharacterSpec{}
	}

	c := entities.New(&entities.Config{
		ID:        s.generator.New(),
		Name:      spec.Name,
		Kind:      entities.KindCharacter,
		Sex:       spec.Sex,
		LifeStage: spec.LifeStage,
		Schema:    stats.CharacterSchema(),
	})

	if err := s.giveTraits(c, spec); err != nil {
		s.cleanup(c)
		return nil, err
	}

	if err := s.store.Add(ctx, c); err != nil {
		s.cleanup(c)
		return nil, simerr.Wrapf(err, "failed to store character %s", c.ID)
	}

	s.logger.Info("character spawned", "entity", c.ID, "name", c.Name, "traits", c.Traits.IDs())
	s.emit(events.NewCharacterEvent(events.EventTypeCharacterSpawned, c))
	return c, nil
}

func (s *Simulation) giveTraits(c *entities.Entity, spec *CharacterSpec) error {
	for _, id := range spec.Traits {
		if err := s.traits.Attach(c, id); err != nil {
			return err
		}
	}
	if spec.ParentA != nil || spec.ParentB != nil {
		if _, err := s.traits.Inherit(c, spec.ParentA, spec.ParentB, s.rng); err != nil {
			return err
		}
	}
	if spec.RandomTraits > 0 {
		if _, err := s.traits.SpawnRandom(c, spec.RandomTraits, s.rng); err != nil {
			return err
		}
	}
	return nil
}

// SpawnPlace creates a business or residence with the given traits
func (s *Simulation) SpawnPlace(ctx context.Context, name string, kind entities.Kind, traitIDs ...string) (*entities.Entity, error) {
	if kind != entities.KindBusiness && kind != entities.KindResidence {
		return nil, simerr.InvalidArgumentf("%s is not a place kind", kind)
	}

	place := entities.New(&entities.Config{
		ID:     s.generator.New(),
		Name:   name,
		Kind:   kind,
		Schema: stats.PlaceSchema(),
	})
	for _, id := range traitIDs {
		if err := s.traits.Attach(place, id); err != nil {
			s.cleanup(place)
			return nil, err
		}
	}

	if err := s.store.Add(ctx, place); err != nil {
		s.cleanup(place)
		return nil, simerr.Wrapf(err, "failed to store place %s", place.ID)
	}
	return place, nil
}

// cleanup detaches everything from an entity that never made it into the store
func (s *Simulation) cleanup(e *entities.Entity) {
	if err := s.traits.DetachAll(e); err != nil {
		s.logger.Error("failed to clean up entity", "entity", e.ID, "error", err)
	}
}

// Depart removes a character from the simulation. Its traits are detached,
// which withdraws its social rules, then every relationship it owns or is
// the target of is dropped.
func (s *Simulation) Depart(ctx context.Context, character *entities.Entity) error {
	if character == nil {
		return simerr.InvalidArgument("character cannot be nil")
	}
	if _, err := s.store.Get(ctx, character.ID); err != nil {
		return err
	}

	if err := s.traits.DetachAll(character); err != nil {
		return simerr.Wrapf(err, "failed to detach traits from %s", character.ID)
	}

	removed := s.directory.RemoveAll(character)
	for _, rel := range removed {
		if err := s.traits.DetachAll(rel); err != nil {
			return simerr.Wrapf(err, "failed to detach traits from %s", rel.ID)
		}
	}
	s.propagator.ForgetOwner(character)

	if err := s.store.Remove(ctx, character.ID); err != nil {
		return err
	}

	s.logger.Info("character departed", "entity", character.ID, "relationships", len(removed))
	s.emit(events.NewCharacterEvent(events.EventTypeCharacterDeparted, character))
	return nil
}

func (s *Simulation) emit(e events.Event) {
	if err := s.bus.Emit(e); err != nil {
		s.logger.Warn("event listener failed", "event", e.GetType(), "error", err)
	}
}

package engine

import (
	"context"
	"time"

	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/lifeevents"
	"github.com/ShiJbey/neighborly/internal/locations"
	"github.com/ShiJbey/neighborly/internal/random"
	"github.com/ShiJbey/neighborly/internal/stats"
)

// StepReport summarizes one simulation step
type StepReport struct {
	Step int
	// Expired counts timed traits that ran out
	Expired int
	// Visits maps character id to the place it frequented
	Visits map[string]string
	// Interactions counts relationship pairs that met at a place
	Interactions int
	// LifeEvents maps character id to the life event that fired
	LifeEvents map[string]string
}

// Step advances the simulation by one tick:
//  1. timed traits count down and expire
//  2. each character picks the place it prefers most
//  3. characters at the same place interact, creating relationships both ways
//  4. each character may roll a life event
//  5. every character's social rules are re-checked
func (s *Simulation) Step(ctx context.Context) (*StepReport, error) {
	start := time.Now()
	s.step++
	report := &StepReport{
		Step:       s.step,
		Visits:     make(map[string]string),
		LifeEvents: make(map[string]string),
	}

	characters, err := s.store.List(ctx, entities.KindCharacter)
	if err != nil {
		return nil, simerr.Wrap(err, "failed to list characters")
	}
	places, err := s.places(ctx)
	if err != nil {
		return nil, err
	}

	if report.Expired, err = s.tick(characters, places); err != nil {
		return nil, err
	}

	visitors, err := s.visit(ctx, characters, places, report)
	if err != nil {
		return nil, err
	}

	for _, place := range places {
		n, err := s.interact(visitors[place.ID])
		if err != nil {
			return nil, err
		}
		report.Interactions += n
	}

	if err := s.rollLifeEvents(characters, report); err != nil {
		return nil, err
	}

	for _, c := range characters {
		if err := s.propagator.Reevaluate(c); err != nil {
			return nil, simerr.Wrapf(err, "failed to re-evaluate rules for %s", c.ID)
		}
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveStep(elapsed)
	}
	s.logger.Info("simulation step",
		"step", report.Step,
		"characters", len(characters),
		"expired", report.Expired,
		"interactions", report.Interactions,
		"life_events", len(report.LifeEvents),
		"elapsed", elapsed)
	return report, nil
}

func (s *Simulation) places(ctx context.Context) ([]*entities.Entity, error) {
	all, err := s.store.List(ctx, "")
	if err != nil {
		return nil, simerr.Wrap(err, "failed to list places")
	}
	out := make([]*entities.Entity, 0, len(all))
	for _, e := range all {
		if e.Kind == entities.KindBusiness || e.Kind == entities.KindResidence {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Simulation) tick(characters, places []*entities.Entity) (int, error) {
	targets := make([]*entities.Entity, 0, len(characters)+len(places))
	targets = append(targets, characters...)
	targets = append(targets, places...)
	for _, c := range characters {
		targets = append(targets, c.Relationships.AllOutgoing()...)
	}
	return s.traits.Tick(targets...)
}

func (s *Simulation) visit(ctx context.Context, characters, places []*entities.Entity, report *StepReport) (map[string][]*entities.Entity, error) {
	visitors := make(map[string][]*entities.Entity)
	if len(places) == 0 {
		return visitors, nil
	}
	for _, c := range characters {
		best, err := locations.Best(ctx, c, places)
		if err != nil {
			return nil, simerr.Wrapf(err, "failed to rank places for %s", c.ID)
		}
		if best == nil {
			continue
		}
		report.Visits[c.ID] = best.ID
		visitors[best.ID] = append(visitors[best.ID], c)
	}
	return visitors, nil
}

// interact introduces every pair of visitors in both directions and raises
// their interaction score
func (s *Simulation) interact(visitors []*entities.Entity) (int, error) {
	n := 0
	for i, a := range visitors {
		for _, b := range visitors[i+1:] {
			for _, pair := range [2][2]*entities.Entity{{a, b}, {b, a}} {
				rel, err := s.directory.GetOrCreate(pair[0], pair[1])
				if err != nil {
					return n, err
				}
				score, err := rel.GetStat(stats.InteractionScore)
				if err != nil {
					return n, err
				}
				score.AddToBase(1)
			}
			n++
		}
	}
	return n, nil
}

func (s *Simulation) rollLifeEvents(characters []*entities.Entity, report *StepReport) error {
	if len(s.lifeEvents) == 0 || s.lifeEventChance < 0 {
		return nil
	}
	for _, c := range characters {
		if !random.Chance(s.rng, s.lifeEventChance) {
			continue
		}
		event, err := lifeevents.Select(s.rng, c, s.lifeEvents)
		if simerr.IsNotFound(err) {
			continue
		}
		if err != nil {
			return err
		}

		report.LifeEvents[c.ID] = event.ID
		s.logger.Debug("life event", "entity", c.ID, "event", event.ID)
		for _, id := range event.Traits {
			if !s.traits.CanAttach(c, id) {
				continue
			}
			if err := s.AttachTrait(c, id); err != nil {
				return simerr.Wrapf(err, "life event %s", event.ID)
			}
		}
	}
	return nil
}

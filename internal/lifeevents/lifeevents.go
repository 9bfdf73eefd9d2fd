package lifeevents

import (
	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/probability"
	"github.com/ShiJbey/neighborly/internal/random"
	"github.com/ShiJbey/neighborly/internal/stats"
)

// LifeEvent is something that can happen to a character, such as a marriage
// or a job offer
type LifeEvent struct {
	ID              string
	BaseProbability float64
	Considerations  []probability.Consideration[*entities.Entity]

	// Traits are attached to the subject when the event fires
	Traits []string
}

// Probability returns how likely the event is for subject
func (e *LifeEvent) Probability(subject *entities.Entity) float64 {
	return probability.Aggregate(e.BaseProbability, subject, e.Considerations...)
}

// Select picks one event for subject, weighted by probability. It returns
// NotFound when every event is vetoed.
func Select(rng random.Source, subject *entities.Entity, events []*LifeEvent) (*LifeEvent, error) {
	weights := make([]float64, len(events))
	for i, e := range events {
		weights[i] = e.Probability(subject)
	}

	idx := random.WeightedIndex(rng, weights)
	if idx < 0 {
		return nil, simerr.NotFoundf("no life event is possible for %s", subject.ID).
			WithMeta("entity", subject.ID)
	}
	return events[idx], nil
}

// HasTrait scores s when subject holds traitID and abstains otherwise
func HasTrait(traitID string, s float64) probability.Consideration[*entities.Entity] {
	return probability.When(func(e *entities.Entity) bool { return e.HasTrait(traitID) }, s)
}

// VetoUnless vetoes the event when subject lacks traitID
func VetoUnless(traitID string) probability.Consideration[*entities.Entity] {
	return func(e *entities.Entity) float64 {
		if e.HasTrait(traitID) {
			return probability.Abstain
		}
		return probability.Veto
	}
}

// NormalizedStat scores with subject's normalized stat value. Unknown or
// unbounded stats abstain.
func NormalizedStat(statID string) probability.Consideration[*entities.Entity] {
	return func(e *entities.Entity) float64 {
		stat, err := e.GetStat(statID)
		if err != nil {
			return probability.Abstain
		}
		n, err := stat.Normalized()
		if err != nil {
			return probability.Abstain
		}
		return n
	}
}

// MinLifeStage vetoes the event for subjects younger than stage
func MinLifeStage(stage entities.LifeStage) probability.Consideration[*entities.Entity] {
	return func(e *entities.Entity) float64 {
		if e.LifeStage < stage {
			return probability.Veto
		}
		return probability.Abstain
	}
}

// Defaults returns the stock life events used by the CLI
func Defaults() []*LifeEvent {
	return []*LifeEvent{
		{
			ID:              "marriage",
			BaseProbability: 0.3,
			Considerations: []probability.Consideration[*entities.Entity]{
				MinLifeStage(entities.LifeStageYoungAdult),
				NormalizedStat(stats.Charm),
				HasTrait("romantic", 0.8),
			},
			Traits: []string{"married"},
		},
		{
			ID:              "new_job",
			BaseProbability: 0.4,
			Considerations: []probability.Consideration[*entities.Entity]{
				MinLifeStage(entities.LifeStageYoungAdult),
				NormalizedStat(stats.Stewardship),
			},
			Traits: []string{"employed"},
		},
		{
			ID:              "retirement",
			BaseProbability: 0.5,
			Considerations: []probability.Consideration[*entities.Entity]{
				MinLifeStage(entities.LifeStageSenior),
				VetoUnless("employed"),
			},
			Traits: []string{"retired"},
		},
	}
}

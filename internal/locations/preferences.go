package locations

import (
	"context"
	"sort"

	"github.com/ShiJbey/neighborly/internal/entities"
	"github.com/ShiJbey/neighborly/internal/probability"
)

// BaseProbability is the score of a location before any preference applies
const BaseProbability = 0.5

// Score rates how likely character is to frequent location. Each preference
// whose preconditions hold contributes its probability; the rest abstain.
func Score(character, location *entities.Entity) float64 {
	prefs := character.LocationPreferences.All()
	scores := make([]float64, len(prefs))
	for i, pref := range prefs {
		if pref.Matches(location) {
			scores[i] = pref.Probability
		} else {
			scores[i] = probability.Abstain
		}
	}
	return probability.Evaluate(BaseProbability, scores...)
}

// Ranked is a location with its score
type Ranked struct {
	Location *entities.Entity
	Score    float64
}

// Rank scores candidates in parallel and returns them best first. Equal
// scores keep candidate order.
func Rank(ctx context.Context, character *entities.Entity, candidates []*entities.Entity) ([]Ranked, error) {
	scores, err := probability.EvaluateAll(ctx, candidates, 0,
		func(_ context.Context, location *entities.Entity) (float64, error) {
			return Score(character, location), nil
		})
	if err != nil {
		return nil, err
	}

	ranked := make([]Ranked, len(candidates))
	for i, loc := range candidates {
		ranked[i] = Ranked{Location: loc, Score: scores[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}

// Best returns the highest ranked location with a positive score, or nil
func Best(ctx context.Context, character *entities.Entity, candidates []*entities.Entity) (*entities.Entity, error) {
	ranked, err := Rank(ctx, character, candidates)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 || ranked[0].Score <= 0 {
		return nil, nil
	}
	return ranked[0].Location, nil
}

package traits

import (
	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/random"
)

// Inherit rolls for each inheritable trait held by either parent and attaches
// the winners to child. Traits are visited in sorted id order so a seeded
// source always gives the same result. Conflicting and duplicate traits are
// skipped. Either parent may be nil.
func (m *Manager) Inherit(child, parentA, parentB *entities.Entity, rng random.Source) ([]string, error) {
	var gained []string

	for _, trait := range m.library.All() {
		if !trait.Inheritable() {
			continue
		}

		inA := parentA != nil && parentA.HasTrait(trait.ID)
		inB := parentB != nil && parentB.HasTrait(trait.ID)

		var chance float64
		switch {
		case inA && inB:
			chance = trait.InheritanceChanceBoth
		case inA || inB:
			chance = trait.InheritanceChanceSingle
		default:
			continue
		}

		if !random.Chance(rng, chance) {
			continue
		}

		if !m.CanAttach(child, trait.ID) {
			m.logger.Warn("skipping inherited trait", "entity", child.ID, "trait", trait.ID)
			continue
		}

		if err := m.Attach(child, trait.ID); err != nil {
			return gained, simerr.Wrapf(err, "failed to inherit %s", trait.ID)
		}
		gained = append(gained, trait.ID)
	}

	if len(gained) > 0 {
		m.logger.Debug("inherited traits", "entity", child.ID, "traits", gained)
	}
	return gained, nil
}

// SpawnRandom attaches up to n traits to target, picked by spawn frequency.
// Traits that are already held or that conflict are never picked.
func (m *Manager) SpawnRandom(target *entities.Entity, n int, rng random.Source) ([]string, error) {
	var gained []string

	for len(gained) < n {
		var candidates []*Trait
		var weights []float64
		for _, trait := range m.library.All() {
			if trait.SpawnFrequency <= 0 || !m.CanAttach(target, trait.ID) {
				continue
			}
			candidates = append(candidates, trait)
			weights = append(weights, trait.SpawnFrequency)
		}

		idx := random.WeightedIndex(rng, weights)
		if idx < 0 {
			break
		}

		pick := candidates[idx]
		if err := m.Attach(target, pick.ID); err != nil {
			return gained, simerr.Wrapf(err, "failed to spawn %s", pick.ID)
		}
		gained = append(gained, pick.ID)
	}

	return gained, nil
}

package testutils

import (
	"github.com/ShiJbey/neighborly/internal/entities"
	"github.com/ShiJbey/neighborly/internal/stats"
)

// PersonalityYAML is a small authoring record with a conflict pair and a
// social rule
const PersonalityYAML = `
gullible:
  display_name: Gullible
  description: Believes what they are told
  conflicts_with: [skeptical]
  spawn_frequency: 1
  effects:
    - type: AddSocialRule
      description: trusts everyone
      effects:
        - type: StatBuff
          stat: reputation
          amount: 5

skeptical:
  display_name: Skeptical
  conflicts_with: [gullible]
  spawn_frequency: 1
  inheritance_chance_single: 0.25
  inheritance_chance_both: 0.5
  effects:
    - type: StatBuff
      stat: boldness
      amount: 10
`

// CreateTestCharacter creates a character with the default schema
func CreateTestCharacter(id, name string) *entities.Entity {
	return entities.New(&entities.Config{
		ID:        id,
		Name:      name,
		Kind:      entities.KindCharacter,
		LifeStage: entities.LifeStageAdult,
		Schema:    stats.CharacterSchema(),
	})
}

package stats

// Character stat identifiers
const (
	Lifespan     = "lifespan"
	Fertility    = "fertility"
	Kindness     = "kindness"
	Courage      = "courage"
	Stewardship  = "stewardship"
	Sociability  = "sociability"
	Intelligence = "intelligence"
	Discipline   = "discipline"
	Charm        = "charm"
	Boldness     = "boldness"
	Attraction   = "attraction"
)

// Relationship stat identifiers
const (
	Reputation            = "reputation"
	Romance               = "romance"
	Compatibility         = "compatibility"
	RomanticCompatibility = "romantic_compatibility"
	InteractionScore      = "interaction_score"
)

// Skill bounds
const (
	SkillMin = 0
	SkillMax = 255
)

// personality stats share the 0..100 discrete range
func personality(id string) Definition {
	return Definition{ID: id, Bounds: Bounds{Min: 0, Max: 100}, Bounded: true, Discrete: true}
}

// CharacterSchema is the stat catalogue for characters
func CharacterSchema() *Schema {
	return NewSchema("character",
		Definition{ID: Lifespan, Bounds: Bounds{Min: 0, Max: 999_999}, Bounded: true, Discrete: true},
		Definition{ID: Fertility, Bounds: Bounds{Min: 0, Max: 1}, Bounded: true},
		personality(Kindness),
		personality(Courage),
		personality(Stewardship),
		personality(Sociability),
		personality(Intelligence),
		personality(Discipline),
		personality(Charm),
		personality(Boldness),
		personality(Attraction),
	)
}

// RelationshipSchema is the stat catalogue for directed relationships
func RelationshipSchema() *Schema {
	return NewSchema("relationship",
		Definition{ID: Reputation, Bounds: Bounds{Min: -50, Max: 50}, Bounded: true, Discrete: true},
		Definition{ID: Romance, Bounds: Bounds{Min: -50, Max: 50}, Bounded: true, Discrete: true},
		Definition{ID: Compatibility, Bounds: Bounds{Min: -1, Max: 1}, Bounded: true},
		Definition{ID: RomanticCompatibility, Bounds: Bounds{Min: -1, Max: 1}, Bounded: true},
		Definition{ID: InteractionScore, Bounds: Bounds{Min: 0, Max: 100}, Bounded: true, Discrete: true},
	)
}

// PlaceSchema is the stat catalogue for businesses and residences
func PlaceSchema() *Schema {
	return NewSchema("place")
}

// NewSkill creates a skill stat with the standard skill bounds
func NewSkill(base float64) *Stat {
	return NewBounded(base, Bounds{Min: SkillMin, Max: SkillMax}, false)
}

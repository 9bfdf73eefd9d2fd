package events

// Event type constants
const (
	// Trait lifecycle
	EventTypeTraitAttached EventType = "trait_attached"
	EventTypeTraitDetached EventType = "trait_detached"
	EventTypeTraitExpired  EventType = "trait_expired"

	// Relationships
	EventTypeRelationshipCreated EventType = "relationship_created"
	EventTypeRelationshipRemoved EventType = "relationship_removed"

	// Social rules
	EventTypeRuleApplied EventType = "rule_applied"
	EventTypeRuleRemoved EventType = "rule_removed"

	// Population
	EventTypeCharacterSpawned  EventType = "character_spawned"
	EventTypeCharacterDeparted EventType = "character_departed"
)

// AllEventTypes lists every event type the engine emits
var AllEventTypes = []EventType{
	EventTypeTraitAttached,
	EventTypeTraitDetached,
	EventTypeTraitExpired,
	EventTypeRelationshipCreated,
	EventTypeRelationshipRemoved,
	EventTypeRuleApplied,
	EventTypeRuleRemoved,
	EventTypeCharacterSpawned,
	EventTypeCharacterDeparted,
}

// Priority levels for listener order
const (
	PriorityMetrics  = 100 // Counters
	PriorityObserver = 200 // Loggers, CLI output
	PriorityLate     = 500
)

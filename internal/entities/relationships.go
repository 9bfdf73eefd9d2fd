package entities

// RelationshipIndex tracks the relationship entities that start and end at an
// entity. Both directions keep creation order.
type RelationshipIndex struct {
	outgoing     []*Entity
	outgoingByID map[string]*Entity
	incoming     []*Entity
	incomingByID map[string]*Entity
}

// NewRelationshipIndex creates an empty index
func NewRelationshipIndex() *RelationshipIndex {
	return &RelationshipIndex{
		outgoingByID: make(map[string]*Entity),
		incomingByID: make(map[string]*Entity),
	}
}

// Outgoing returns the relationship this entity holds toward targetID
func (r *RelationshipIndex) Outgoing(targetID string) (*Entity, bool) {
	rel, ok := r.outgoingByID[targetID]
	return rel, ok
}

// Incoming returns the relationship ownerID holds toward this entity
func (r *RelationshipIndex) Incoming(ownerID string) (*Entity, bool) {
	rel, ok := r.incomingByID[ownerID]
	return rel, ok
}

// AllOutgoing returns outgoing relationships in creation order
func (r *RelationshipIndex) AllOutgoing() []*Entity {
	out := make([]*Entity, len(r.outgoing))
	copy(out, r.outgoing)
	return out
}

// AllIncoming returns incoming relationships in creation order
func (r *RelationshipIndex) AllIncoming() []*Entity {
	out := make([]*Entity, len(r.incoming))
	copy(out, r.incoming)
	return out
}

// AddOutgoing records rel as held toward targetID
func (r *RelationshipIndex) AddOutgoing(targetID string, rel *Entity) {
	r.outgoing = append(r.outgoing, rel)
	r.outgoingByID[targetID] = rel
}

// AddIncoming records rel as held by ownerID
func (r *RelationshipIndex) AddIncoming(ownerID string, rel *Entity) {
	r.incoming = append(r.incoming, rel)
	r.incomingByID[ownerID] = rel
}

// RemoveOutgoing drops the relationship toward targetID
func (r *RelationshipIndex) RemoveOutgoing(targetID string) (*Entity, bool) {
	rel, ok := r.outgoingByID[targetID]
	if !ok {
		return nil, false
	}
	delete(r.outgoingByID, targetID)
	r.outgoing = without(r.outgoing, rel)
	return rel, true
}

// RemoveIncoming drops the relationship held by ownerID
func (r *RelationshipIndex) RemoveIncoming(ownerID string) (*Entity, bool) {
	rel, ok := r.incomingByID[ownerID]
	if !ok {
		return nil, false
	}
	delete(r.incomingByID, ownerID)
	r.incoming = without(r.incoming, rel)
	return rel, true
}

func without(list []*Entity, e *Entity) []*Entity {
	for i, item := range list {
		if item == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

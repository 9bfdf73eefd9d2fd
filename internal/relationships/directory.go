package relationships

import (
	"log/slog"
	"sync"

	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/events"
	"github.com/ShiJbey/neighborly/internal/stats"
	"github.com/ShiJbey/neighborly/internal/uuid"
)

// DirectoryConfig holds the collaborators of a Directory
type DirectoryConfig struct {
	// Schema builds the stats of new relationships. Defaults to
	// stats.RelationshipSchema.
	Schema    *stats.Schema
	Listener  CreationListener
	Removal   RemovalListener
	Generator uuid.Generator
	Bus       *events.Bus
	Logger    *slog.Logger
}

// Directory materializes directed relationships on first access
type Directory struct {
	mu        sync.Mutex
	schema    *stats.Schema
	listener  CreationListener
	removal   RemovalListener
	generator uuid.Generator
	bus       *events.Bus
	logger    *slog.Logger
	count     int
}

// NewDirectory creates a relationship directory
func NewDirectory(cfg *DirectoryConfig) *Directory {
	d := &Directory{
		schema:    stats.RelationshipSchema(),
		generator: uuid.NewGoogleUUIDGenerator(),
		logger:    slog.Default(),
	}
	if cfg == nil {
		return d
	}
	if cfg.Schema != nil {
		d.schema = cfg.Schema
	}
	if cfg.Generator != nil {
		d.generator = cfg.Generator
	}
	if cfg.Logger != nil {
		d.logger = cfg.Logger
	}
	d.listener = cfg.Listener
	d.removal = cfg.Removal
	d.bus = cfg.Bus
	return d
}

// GetOrCreate returns the relationship owner holds toward target, creating
// it if needed. A created relationship is indexed on both endpoints before
// the creation listener runs; if the listener fails it is unindexed again.
func (d *Directory) GetOrCreate(owner, target *entities.Entity) (*entities.Entity, error) {
	if owner == nil || target == nil {
		return nil, simerr.InvalidArgument("owner and target are required")
	}
	if owner == target || owner.ID == target.ID {
		return nil, simerr.InvalidArgumentf("%s cannot have a relationship with itself", owner.ID).
			WithMeta("entity", owner.ID)
	}

	d.mu.Lock()
	if rel, ok := owner.Relationships.Outgoing(target.ID); ok {
		d.mu.Unlock()
		return rel, nil
	}

	rel := entities.NewRelationship(d.generator.New(), owner, target, d.schema)
	owner.Relationships.AddOutgoing(target.ID, rel)
	target.Relationships.AddIncoming(owner.ID, rel)
	d.count++
	d.mu.Unlock()

	d.logger.Debug("created relationship", "owner", owner.ID, "target", target.ID, "relationship", rel.ID)

	if d.listener != nil {
		if err := d.listener.OnRelationshipCreated(rel); err != nil {
			d.discard(rel)
			return nil, simerr.Wrapf(err, "failed to propagate rules onto %s", rel.ID)
		}
	}

	d.emit(events.NewRelationshipEvent(events.EventTypeRelationshipCreated, rel))
	return rel, nil
}

func (d *Directory) discard(rel *entities.Entity) {
	owner, target := rel.Edge.Owner, rel.Edge.Target

	d.mu.Lock()
	owner.Relationships.RemoveOutgoing(target.ID)
	target.Relationships.RemoveIncoming(owner.ID)
	d.count--
	d.mu.Unlock()

	if d.removal != nil {
		d.removal.Forget(rel)
	}
}

// Exists reports whether owner holds a relationship toward target
func (d *Directory) Exists(owner, target *entities.Entity) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := owner.Relationships.Outgoing(target.ID)
	return ok
}

// Get returns an existing relationship without creating one
func (d *Directory) Get(owner, target *entities.Entity) (*entities.Entity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rel, ok := owner.Relationships.Outgoing(target.ID)
	if !ok {
		return nil, simerr.NotFoundf("%s has no relationship with %s", owner.ID, target.ID).
			WithMeta("owner", owner.ID).
			WithMeta("target", target.ID)
	}
	return rel, nil
}

// Outgoing returns the relationships owner holds, in creation order
func (d *Directory) Outgoing(owner *entities.Entity) []*entities.Entity {
	d.mu.Lock()
	defer d.mu.Unlock()
	return owner.Relationships.AllOutgoing()
}

// Incoming returns the relationships held toward target, in creation order
func (d *Directory) Incoming(target *entities.Entity) []*entities.Entity {
	d.mu.Lock()
	defer d.mu.Unlock()
	return target.Relationships.AllIncoming()
}

// Count returns the number of live relationships
func (d *Directory) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// RemoveAll destroys every relationship that starts or ends at e. It returns
// the removed relationships, outgoing first.
func (d *Directory) RemoveAll(e *entities.Entity) []*entities.Entity {
	d.mu.Lock()
	var removed []*entities.Entity
	for _, rel := range e.Relationships.AllOutgoing() {
		target := rel.Edge.Target
		e.Relationships.RemoveOutgoing(target.ID)
		target.Relationships.RemoveIncoming(e.ID)
		removed = append(removed, rel)
	}
	for _, rel := range e.Relationships.AllIncoming() {
		owner := rel.Edge.Owner
		e.Relationships.RemoveIncoming(owner.ID)
		owner.Relationships.RemoveOutgoing(e.ID)
		removed = append(removed, rel)
	}
	d.count -= len(removed)
	d.mu.Unlock()

	for _, rel := range removed {
		if d.removal != nil {
			d.removal.Forget(rel)
		}
		d.emit(events.NewRelationshipEvent(events.EventTypeRelationshipRemoved, rel))
	}
	return removed
}

func (d *Directory) emit(e events.Event) {
	if d.bus == nil {
		return
	}
	if err := d.bus.Emit(e); err != nil {
		d.logger.Warn("event listener failed", "event", e.GetType(), "error", err)
	}
}

package effects

import (
	"sort"
	"sync"

	simerr "github.com/ShiJbey/neighborly/internal/errors"
)

// EffectConstructor builds an effect from authored params. The registry is
// passed so composite effects can build nested records at construction time.
type EffectConstructor func(r *Registry, p Params) (Effect, error)

// PreconditionConstructor builds a precondition from authored params
type PreconditionConstructor func(r *Registry, p Params) (Precondition, error)

// Registry maps authored type names to constructors
type Registry struct {
	mu            sync.RWMutex
	effects       map[string]EffectConstructor
	preconditions map[string]PreconditionConstructor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		effects:       make(map[string]EffectConstructor),
		preconditions: make(map[string]PreconditionConstructor),
	}
}

// NewDefaultRegistry creates a registry with every built-in effect and
// precondition registered
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for name, ctor := range builtinEffects {
		r.effects[name] = ctor
	}
	for name, ctor := range builtinPreconditions {
		r.preconditions[name] = ctor
	}
	return r
}

// RegisterEffect adds an effect type
func (r *Registry) RegisterEffect(name string, ctor EffectConstructor) error {
	if name == "" || ctor == nil {
		return simerr.InvalidArgument("effect name and constructor are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.effects[name]; ok {
		return simerr.AlreadyExistsf("effect type %q is already registered", name).WithMeta("type", name)
	}
	r.effects[name] = ctor
	return nil
}

// RegisterPrecondition adds a precondition type
func (r *Registry) RegisterPrecondition(name string, ctor PreconditionConstructor) error {
	if name == "" || ctor == nil {
		return simerr.InvalidArgument("precondition name and constructor are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.preconditions[name]; ok {
		return simerr.AlreadyExistsf("precondition type %q is already registered", name).WithMeta("type", name)
	}
	r.preconditions[name] = ctor
	return nil
}

// BuildEffect constructs the named effect type
func (r *Registry) BuildEffect(name string, p Params) (Effect, error) {
	r.mu.RLock()
	ctor, ok := r.effects[name]
	r.mu.RUnlock()
	if !ok {
		return nil, simerr.UnknownTypef("unknown effect type %q", name).WithMeta("type", name)
	}

	effect, err := ctor(r, p)
	if err != nil {
		return nil, simerr.Wrapf(err, "failed to build effect %q", name).WithMeta("type", name)
	}
	return effect, nil
}

// BuildPrecondition constructs the named precondition type
func (r *Registry) BuildPrecondition(name string, p Params) (Precondition, error) {
	r.mu.RLock()
	ctor, ok := r.preconditions[name]
	r.mu.RUnlock()
	if !ok {
		return nil, simerr.UnknownTypef("unknown precondition type %q", name).WithMeta("type", name)
	}

	pre, err := ctor(r, p)
	if err != nil {
		return nil, simerr.Wrapf(err, "failed to build precondition %q", name).WithMeta("type", name)
	}
	return pre, nil
}

// BuildEffects constructs a list of records, each naming its type in a
// "type" field
func (r *Registry) BuildEffects(records []Params) ([]Effect, error) {
	out := make([]Effect, 0, len(records))
	for i, rec := range records {
		name, err := rec.Type()
		if err != nil {
			return nil, simerr.Wrapf(err, "effect %d", i).WithMeta("index", i)
		}
		effect, err := r.BuildEffect(name, rec)
		if err != nil {
			return nil, simerr.Wrapf(err, "effect %d", i).WithMeta("index", i)
		}
		out = append(out, effect)
	}
	return out, nil
}

// BuildPreconditions constructs a list of precondition records
func (r *Registry) BuildPreconditions(records []Params) ([]Precondition, error) {
	out := make([]Precondition, 0, len(records))
	for i, rec := range records {
		name, err := rec.Type()
		if err != nil {
			return nil, simerr.Wrapf(err, "precondition %d", i).WithMeta("index", i)
		}
		pre, err := r.BuildPrecondition(name, rec)
		if err != nil {
			return nil, simerr.Wrapf(err, "precondition %d", i).WithMeta("index", i)
		}
		out = append(out, pre)
	}
	return out, nil
}

// EffectTypes lists registered effect names in sorted order
func (r *Registry) EffectTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.effects)
}

// PreconditionTypes lists registered precondition names in sorted order
func (r *Registry) PreconditionTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.preconditions)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

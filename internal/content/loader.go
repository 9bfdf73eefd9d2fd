// Package content loads trait authoring records from YAML documents into a
// trait library
package content

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ShiJbey/neighborly/internal/effects"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/repositories/catalog"
	"github.com/ShiJbey/neighborly/internal/traits"
	"gopkg.in/yaml.v3"
)

// Fields accepted on a trait record
const (
	FieldDisplayName             = "display_name"
	FieldDescription             = "description"
	FieldEffects                 = "effects"
	FieldConflictsWith           = "conflicts_with"
	FieldSpawnFrequency          = "spawn_frequency"
	FieldInheritanceChanceSingle = "inheritance_chance_single"
	FieldInheritanceChanceBoth   = "inheritance_chance_both"
)

var knownFields = map[string]struct{}{
	FieldDisplayName:             {},
	FieldDescription:             {},
	FieldEffects:                 {},
	FieldConflictsWith:           {},
	FieldSpawnFrequency:          {},
	FieldInheritanceChanceSingle: {},
	FieldInheritanceChanceBoth:   {},
}

// LoaderConfig holds the loader's collaborators
type LoaderConfig struct {
	Registry *effects.Registry
	Library  *traits.Library
	Logger   *slog.Logger
}

// Loader turns authoring documents into catalogued traits. The first bad
// record aborts the load.
type Loader struct {
	registry *effects.Registry
	library  *traits.Library
	logger   *slog.Logger
}

// NewLoader creates a loader. A nil registry uses the built-ins and a nil
// library starts empty.
func NewLoader(cfg *LoaderConfig) *Loader {
	if cfg == nil {
		cfg = &LoaderConfig{}
	}
	l := &Loader{
		registry: cfg.Registry,
		library:  cfg.Library,
		logger:   cfg.Logger,
	}
	if l.registry == nil {
		l.registry = effects.NewDefaultRegistry()
	}
	if l.library == nil {
		l.library = traits.NewLibrary()
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Library returns the library traits are loaded into
func (l *Loader) Library() *traits.Library {
	return l.library
}

// Load parses one document and adds its traits to the library. Nothing from
// the document is added unless every record in it is valid.
func (l *Loader) Load(document string, data []byte) ([]*traits.Trait, error) {
	parsed, err := Parse(l.registry, document, data)
	if err != nil {
		return nil, err
	}

	for _, t := range parsed {
		if l.library.Has(t.ID) {
			return nil, simerr.AlreadyExistsf("trait %q is defined twice", t.ID).
				WithMeta("document", document).
				WithMeta("trait", t.ID)
		}
	}
	for _, t := range parsed {
		if err := l.library.Add(t); err != nil {
			return nil, simerr.Wrapf(err, "document %s", document).
				WithMeta("document", document).
				WithMeta("trait", t.ID)
		}
	}

	l.logger.Info("content loaded", "document", document, "traits", len(parsed))
	return parsed, nil
}

// LoadFile loads a single YAML file
func (l *Loader) LoadFile(path string) ([]*traits.Trait, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, simerr.Wrapf(err, "failed to read %s", path).WithMeta("document", path)
	}
	return l.Load(path, data)
}

// LoadDir loads every .yaml and .yml file under dir, in lexical path order
func (l *Loader) LoadDir(dir string) ([]*traits.Trait, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsDocument(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, simerr.Wrapf(err, "failed to walk %s", dir).WithMeta("document", dir)
	}
	sort.Strings(paths)

	var all []*traits.Trait
	for _, path := range paths {
		loaded, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, loaded...)
	}
	l.warnUnknownConflicts()
	return all, nil
}

// LoadRepository loads every document stored in repo, in name order
func (l *Loader) LoadRepository(ctx context.Context, repo catalog.Repository) ([]*traits.Trait, error) {
	docs, err := repo.List(ctx)
	if err != nil {
		return nil, simerr.Wrap(err, "failed to list catalog documents")
	}

	var all []*traits.Trait
	for _, doc := range docs {
		loaded, err := l.Load(doc.Name, doc.Body)
		if err != nil {
			return nil, err
		}
		all = append(all, loaded...)
	}
	l.warnUnknownConflicts()
	return all, nil
}

func (l *Loader) warnUnknownConflicts() {
	for _, pair := range l.library.UnknownConflicts() {
		l.logger.Warn("trait conflicts with an uncatalogued trait", "conflict", pair)
	}
}

// IsDocument reports whether path names a YAML document
func IsDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Parse decodes a document into traits without touching any library. Traits
// come back in document order.
func Parse(registry *effects.Registry, document string, data []byte) ([]*traits.Trait, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, simerr.Validationf("malformed YAML: %v", err).WithMeta("document", document)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, simerr.Validationf("document must map trait ids to records").WithMeta("document", document)
	}

	out := make([]*traits.Trait, 0, len(top.Content)/2)
	seen := make(map[string]struct{}, len(top.Content)/2)
	for i := 0; i+1 < len(top.Content); i += 2 {
		id := top.Content[i].Value
		if id == "" {
			return nil, simerr.Validationf("trait id cannot be empty").
				WithMeta("document", document).
				WithMeta("line", top.Content[i].Line)
		}
		if _, dup := seen[id]; dup {
			return nil, simerr.AlreadyExistsf("trait %q is defined twice", id).
				WithMeta("document", document).
				WithMeta("trait", id)
		}
		seen[id] = struct{}{}

		var record effects.Params
		if err := top.Content[i+1].Decode(&record); err != nil {
			return nil, simerr.Validationf("trait record must be a mapping: %v", err).
				WithMeta("document", document).
				WithMeta("trait", id)
		}
		if record == nil {
			record = effects.Params{}
		}

		t, err := buildTrait(registry, id, record)
		if err != nil {
			return nil, simerr.Wrapf(err, "%s: trait %s", document, id).
				WithMeta("document", document).
				WithMeta("trait", id)
		}
		out = append(out, t)
	}
	return out, nil
}

func buildTrait(registry *effects.Registry, id string, record effects.Params) (*traits.Trait, error) {
	for key := range record {
		if _, ok := knownFields[key]; !ok {
			return nil, simerr.Validationf("unknown field %q", key).WithMeta("field", key)
		}
	}

	displayName, err := record.StringOr(FieldDisplayName, id)
	if err != nil {
		return nil, err
	}
	description, err := record.StringOr(FieldDescription, "")
	if err != nil {
		return nil, err
	}
	conflicts, err := record.Strings(FieldConflictsWith)
	if err != nil {
		return nil, err
	}
	spawn, err := record.FloatOr(FieldSpawnFrequency, 0)
	if err != nil {
		return nil, err
	}
	if spawn < 0 {
		return nil, simerr.Validationf("%s cannot be negative", FieldSpawnFrequency).
			WithMeta("field", FieldSpawnFrequency)
	}
	single, err := chance(record, FieldInheritanceChanceSingle)
	if err != nil {
		return nil, err
	}
	both, err := chance(record, FieldInheritanceChanceBoth)
	if err != nil {
		return nil, err
	}

	records, err := record.List(FieldEffects)
	if err != nil {
		return nil, err
	}
	built, err := registry.BuildEffects(records)
	if err != nil {
		return nil, err
	}

	b := traits.NewBuilder(id).
		WithDisplayName(displayName).
		WithDescription(description).
		ConflictsWith(conflicts...).
		WithSpawnFrequency(spawn).
		WithInheritance(single, both)
	for _, e := range built {
		b.AddEffect(e)
	}
	return b.Build(), nil
}

func chance(record effects.Params, key string) (float64, error) {
	v, err := record.FloatOr(key, 0)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 1 {
		return 0, simerr.Validationf("%s must be between 0 and 1, got %g", key, v).
			WithMeta("field", key)
	}
	return v, nil
}

// PushDir stores every YAML document under dir in repo, named by its path
// relative to dir. It returns the number of documents stored.
func PushDir(ctx context.Context, repo catalog.Repository, dir string) (int, error) {
	n := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsDocument(path) {
			return nil
		}

		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if err := repo.Put(ctx, &catalog.Document{Name: filepath.ToSlash(name), Body: body}); err != nil {
			return simerr.Wrapf(err, "failed to store %s", name).WithMeta("document", name)
		}
		n++
		return nil
	})
	if err != nil {
		return n, simerr.Wrapf(err, "failed to push %s", dir).WithMeta("document", dir)
	}
	return n, nil
}

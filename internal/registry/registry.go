// Package registry holds lifelist type templates and a small generic settings document,
// persisted as a YAML side file. A Registry is constructed once and injected; it is safe
// for concurrent use.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fieldvalue"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
)

var validate = validator.New()

// document is the on-disk shape of the registry file.
type document struct {
	Templates []Template                `yaml:"lifelist_types"`
	Sections  map[string]map[string]any `yaml:"settings"`
}

// Registry serves lifelist type templates and generic section/key settings.
type Registry struct {
	mu   sync.RWMutex
	path string
	doc  document
	log  logger.Logger
}

// New returns an in-memory registry holding the built-in defaults. Nothing is persisted.
func New(log logger.Logger) *Registry {
	return &Registry{
		doc: defaultDocument(),
		log: logger.OrDiscard(log).Module("registry"),
	}
}

// Open loads the registry file at path. A missing or unparsable file is replaced with
// the built-in defaults, which are written back immediately.
func Open(path string, log logger.Logger) (*Registry, error) {
	r := &Registry{
		path: path,
		log:  logger.OrDiscard(log).Module("registry"),
	}

	doc, err := readDocument(path)
	switch {
	case err == nil:
		r.doc = doc
		r.log.Debug("registry loaded", logger.String("path", path), logger.Int("templates", len(doc.Templates)))
		return r, nil
	case errors.Is(err, os.ErrNotExist):
		r.log.Info("registry file not found, writing defaults", logger.String("path", path))
	default:
		r.log.Warn("registry file unreadable, replacing with defaults",
			logger.String("path", path),
			logger.Error(err))
	}

	r.doc = defaultDocument()
	if err := r.save(); err != nil {
		return nil, err
	}
	return r, nil
}

func defaultDocument() document {
	return document{
		Templates: builtinTemplates(),
		Sections:  builtinSections(),
	}
}

func readDocument(path string) (document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from settings
	if err != nil {
		return document{}, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(doc.Templates) == 0 {
		return document{}, fmt.Errorf("parse %s: no lifelist types defined", path)
	}
	for i := range doc.Templates {
		if err := validate.Struct(doc.Templates[i]); err != nil {
			return document{}, fmt.Errorf("parse %s: lifelist type %d: %w", path, i, err)
		}
	}
	if doc.Sections == nil {
		doc.Sections = make(map[string]map[string]any)
	}
	return doc, nil
}

// save writes the document; callers hold the write lock or own r exclusively.
func (r *Registry) save() error {
	if r.path == "" {
		return nil
	}

	data, err := yaml.Marshal(&r.doc)
	if err != nil {
		return errors.New(err).
			Component("registry").
			Category(errors.CategoryConfiguration).
			Context("operation", "encode-registry").
			Build()
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(err).
				Component("registry").
				Category(errors.CategoryFileIO).
				Context("operation", "create-registry-dir").
				Build()
		}
	}

	// write to a sibling temp file first so a crash never leaves a truncated document
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.FileError(err, r.path, int64(len(data)))
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return errors.FileError(err, r.path, int64(len(data)))
	}
	return nil
}

// Path returns the backing file, empty for in-memory registries.
func (r *Registry) Path() string {
	return r.path
}

func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func (r *Registry) findLocked(typeName string) (int, bool) {
	key := foldName(typeName)
	for i := range r.doc.Templates {
		if foldName(r.doc.Templates[i].Name) == key {
			return i, true
		}
	}
	return -1, false
}

// GetTemplate returns the template for typeName, matched case-insensitively.
// Unknown names yield the generic owned/wanted template.
func (r *Registry) GetTemplate(typeName string) Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i, ok := r.findLocked(typeName); ok {
		return r.doc.Templates[i].clone()
	}
	return FallbackTemplate(typeName)
}

// HasTemplate reports whether typeName names a configured lifelist type.
func (r *Registry) HasTemplate(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.findLocked(typeName)
	return ok
}

// Templates returns every configured template in document order.
func (r *Registry) Templates() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Template, len(r.doc.Templates))
	for i := range r.doc.Templates {
		out[i] = r.doc.Templates[i].clone()
	}
	return out
}

// SetTemplate adds or replaces a template and persists the document.
func (r *Registry) SetTemplate(t Template) error {
	t.Name = strings.TrimSpace(t.Name)
	if err := validate.Struct(t); err != nil {
		return errors.New(err).
			Component("registry").
			Category(errors.CategoryValidation).
			Context("template", t.Name).
			Build()
	}
	for _, f := range t.DefaultFields {
		if !f.Type.Valid() {
			return errors.Newf("field %q has unknown type %q", f.Name, f.Type).
				Component("registry").
				Category(errors.CategoryValidation).
				Context("template", t.Name).
				Build()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, replaced := r.findLocked(t.Name)
	var previous Template
	if replaced {
		previous = r.doc.Templates[i]
		r.doc.Templates[i] = t.clone()
	} else {
		r.doc.Templates = append(r.doc.Templates, t.clone())
	}

	if err := r.save(); err != nil {
		if replaced {
			r.doc.Templates[i] = previous
		} else {
			r.doc.Templates = r.doc.Templates[:len(r.doc.Templates)-1]
		}
		return err
	}
	return nil
}

// Get returns the value stored under section/key.
func (r *Registry) Get(section, key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values, ok := r.doc.Sections[section]
	if !ok {
		return nil, false
	}
	v, ok := values[key]
	return v, ok
}

// GetString returns the value under section/key formatted as a string, or def when absent.
func (r *Registry) GetString(section, key, def string) string {
	v, ok := r.Get(section, key)
	if !ok || v == nil {
		return def
	}
	return fmt.Sprint(v)
}

// Set stores value under section/key, creating the section if needed, and persists.
func (r *Registry) Set(section, key string, value any) error {
	if section == "" || key == "" {
		return errors.Newf("section and key must not be empty").
			Component("registry").
			Category(errors.CategoryValidation).
			Build()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.doc.Sections == nil {
		r.doc.Sections = make(map[string]map[string]any)
	}
	values, sectionExisted := r.doc.Sections[section]
	if !sectionExisted {
		values = make(map[string]any)
		r.doc.Sections[section] = values
	}
	previous, keyExisted := values[key]
	values[key] = value

	if err := r.save(); err != nil {
		switch {
		case !sectionExisted:
			delete(r.doc.Sections, section)
		case keyExisted:
			values[key] = previous
		default:
			delete(values, key)
		}
		return err
	}
	r.log.Debug("registry value set", logger.String("section", section), logger.String("key", key))
	return nil
}

// DefaultFieldOptions is a convenience for callers copying template fields.
func (f FieldTemplate) DefaultFieldOptions() *fieldvalue.Options {
	return f.Options.Clone()
}

package report

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Writer renders reports in one output format.
type Writer interface {
	Name() string
	ContentType() string
	Write(w io.Writer, reports ...Report) error
}

// Registry stores writers by name, providing discovery and duplication
// safeguards.
type Registry struct {
	mu      sync.RWMutex
	writers map[string]Writer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		writers: make(map[string]Writer),
	}
}

// Register adds a writer by its Name(). Duplicate names return an error.
func (r *Registry) Register(writer Writer) error {
	if writer == nil {
		return fmt.Errorf("report: writer is required")
	}
	name := writer.Name()
	if name == "" {
		return fmt.Errorf("report: writer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.writers[name]; exists {
		return fmt.Errorf("report: writer %q already registered", name)
	}
	r.writers[name] = writer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(writer Writer) {
	if err := r.Register(writer); err != nil {
		panic(err)
	}
}

// Get retrieves a writer by name.
func (r *Registry) Get(name string) (Writer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	writer, ok := r.writers[name]
	if !ok {
		return nil, fmt.Errorf("report: format %q not found (available: %v)", name, r.listLocked())
	}
	return writer, nil
}

// List returns a sorted list of writer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

func (r *Registry) listLocked() []string {
	names := make([]string, 0, len(r.writers))
	for name := range r.writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry holding every built-in writer.
func DefaultRegistry(options ...HTMLOption) (*Registry, error) {
	htmlWriter, err := NewHTMLWriter(options...)
	if err != nil {
		return nil, err
	}
	registry := NewRegistry()
	registry.MustRegister(TextWriter{})
	registry.MustRegister(JSONWriter{})
	registry.MustRegister(htmlWriter)
	registry.MustRegister(NewMarkdownWriter(htmlWriter))
	return registry, nil
}

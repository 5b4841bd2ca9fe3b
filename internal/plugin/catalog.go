package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a fresh, unconfigured plugin.
type Factory func() Plugin

// Catalog maps plugin names to constructors.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Register adds a constructor. Registering a name twice is an error.
func (c *Catalog) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if f == nil {
		return fmt.Errorf("cannot register nil factory for plugin %s", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.factories[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}
	c.factories[name] = f
	return nil
}

// New constructs the plugin registered under name.
func (c *Catalog) New(name string) (Plugin, error) {
	c.mu.RLock()
	f, ok := c.factories[name]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("plugin %s not found", name)
	}
	return f(), nil
}

// Names returns all registered plugin names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultCatalog is populated by plugin packages from their init functions.
var defaultCatalog = NewCatalog()

// DefaultCatalog returns the process-wide catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// MustRegister adds a constructor to the default catalog and panics on conflict.
func MustRegister(name string, f Factory) {
	if err := defaultCatalog.Register(name, f); err != nil {
		panic(err)
	}
}

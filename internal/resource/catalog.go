package resource

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Catalog holds declared classes by name and binds class-name references
// in property tables to the declared classes.
type Catalog struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{classes: make(map[string]*Class)}
}

// Add records classes by name. A later class with the same name replaces
// the earlier one.
func (c *Catalog) Add(classes ...*Class) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, class := range classes {
		c.classes[class.Name] = class
	}
}

// Get looks up a class by name.
func (c *Catalog) Get(name string) (*Class, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	class, ok := c.classes[name]
	return class, ok
}

// Names returns the declared class names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.classes))
	for n := range c.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve binds every property ClassName to a declared class. Forward
// references are fine as long as the target is in the catalog by now.
// Unknown names are reported together; resolvable ones are bound anyway.
func (c *Catalog) Resolve() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var missing []string
	for _, name := range sortedKeys(c.classes) {
		class := c.classes[name]
		for _, p := range class.properties {
			if p.ClassName == "" {
				continue
			}
			target, ok := c.classes[p.ClassName]
			if !ok {
				missing = append(missing, fmt.Sprintf("%s.%s -> %s", class.Name, p.Name, p.ClassName))
				continue
			}
			p.Class = target
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("unresolved class references: %s", strings.Join(missing, ", "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

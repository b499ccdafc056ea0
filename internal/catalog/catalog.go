// Package catalog loads the learning path and the seed practice items from a
// YAML document.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/pathwise/internal/learnpath"
	"github.com/abhisek/pathwise/internal/practice"
)

const defaultCatalogYAML = `# pathwise catalog
version: 1

path:
  id: python-basics
  title: Python Basics
  description: A starter learning path for Python fundamentals.
  lessons:
    - id: variables
      title: Variables
      content: Learn how to declare and use variables.
    - id: loops
      title: Loops
      content: Learn how to iterate with for and while loops.

# Practice items start as new; order decides which new item comes first.
items:
  - id: variables-review
    prompt: What is a variable?
    order: 1
  - id: loops-review
    prompt: When would you use a for loop instead of a while loop?
    order: 2
  - id: functions-review
    prompt: What does a function return when it has no return statement?
    order: 3
`

// ItemSpec declares one seed practice item.
type ItemSpec struct {
	ID     string `yaml:"id"`
	Prompt string `yaml:"prompt"`
	Order  int    `yaml:"order"`
}

// Catalog is the parsed catalog document.
type Catalog struct {
	Version int            `yaml:"version"`
	Path    learnpath.Path `yaml:"path"`
	Items   []ItemSpec     `yaml:"items"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse([]byte(defaultCatalogYAML))
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}

// Load reads a catalog file. An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that lesson and item IDs are present and unique.
func (c *Catalog) Validate() error {
	var errs []error
	if c.Path.ID == "" {
		errs = append(errs, errors.New("path id is required"))
	}

	seen := make(map[string]bool)
	for i, l := range c.Path.Lessons {
		switch {
		case l.ID == "":
			errs = append(errs, fmt.Errorf("lesson %d: id is required", i))
		case seen[l.ID]:
			errs = append(errs, fmt.Errorf("lesson %q: duplicate id", l.ID))
		}
		seen[l.ID] = true
	}

	seen = make(map[string]bool)
	for i, it := range c.Items {
		switch {
		case it.ID == "":
			errs = append(errs, fmt.Errorf("item %d: id is required", i))
		case seen[it.ID]:
			errs = append(errs, fmt.Errorf("item %q: duplicate id", it.ID))
		}
		seen[it.ID] = true
	}
	return errors.Join(errs...)
}

// SeedItems returns the catalog items as fresh learning items.
func (c *Catalog) SeedItems() []practice.LearningItem {
	out := make([]practice.LearningItem, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, practice.LearningItem{
			ID:     it.ID,
			Prompt: it.Prompt,
			Status: practice.StatusNew,
			Order:  it.Order,
		})
	}
	return out
}

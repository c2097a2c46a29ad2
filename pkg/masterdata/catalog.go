package masterdata

import (
	"fmt"
	"strings"
)

type CatalogKind string

const (
	CatalogCrops            CatalogKind = "crops"
	CatalogPlantParts       CatalogKind = "plant-parts"
	CatalogCultivationTypes CatalogKind = "cultivation-types"
)

var catalogKinds = []CatalogKind{CatalogCrops, CatalogPlantParts, CatalogCultivationTypes}

func ParseCatalogKind(s string) (CatalogKind, error) {
	for _, k := range catalogKinds {
		if string(k) == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown catalog %q", ErrNotFound, s)
}

// catalog is an ordered list of names, unique ignoring case.
// The Store serialises access to it.
type catalog struct {
	names []string
}

func newCatalog(names []string) (*catalog, error) {
	c := &catalog{}
	for _, n := range names {
		if err := c.add(n); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *catalog) index(name string) int {
	for i, n := range c.names {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func (c *catalog) contains(name string) bool { return c.index(name) >= 0 }

// canonical returns the stored spelling of name.
func (c *catalog) canonical(name string) (string, bool) {
	i := c.index(name)
	if i < 0 {
		return "", false
	}
	return c.names[i], true
}

func (c *catalog) list() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *catalog) add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrNotInCatalog)
	}
	if c.contains(name) {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	c.names = append(c.names, name)
	return nil
}

// rename returns the stored spelling of the old name.
func (c *catalog) rename(oldName, newName string) (string, error) {
	i := c.index(oldName)
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrNotFound, oldName)
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return "", fmt.Errorf("%w: empty name", ErrNotInCatalog)
	}
	if j := c.index(newName); j >= 0 && j != i {
		return "", fmt.Errorf("%w: %q", ErrDuplicate, newName)
	}
	prev := c.names[i]
	c.names[i] = newName
	return prev, nil
}

func (c *catalog) remove(name string) error {
	i := c.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	c.names = append(c.names[:i], c.names[i+1:]...)
	return nil
}

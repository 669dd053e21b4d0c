// Package catalog holds the read-only plant catalog and the query engine that
// filters, searches and sorts it.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/Skotchmaster/green_homes/internal/models"
)

const (
	DefaultFeaturedCount = 6
	featuredMinRating    = 4.6
)

var ErrNotFound = errors.New("plant not found")

//go:embed data/plants.json
var defaultData []byte

type Catalog struct {
	plants []models.Plant
	byID   map[string]int
}

func New(plants []models.Plant) (*Catalog, error) {
	c := &Catalog{
		plants: slices.Clone(plants),
		byID:   make(map[string]int, len(plants)),
	}
	for i, p := range c.plants {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate id %s: %w", p.ID, models.ErrInvalidPlant)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

func Load(r io.Reader) (*Catalog, error) {
	var plants []models.Plant
	if err := json.NewDecoder(r).Decode(&plants); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(plants)
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultData))
}

func (c *Catalog) All() []models.Plant {
	return slices.Clone(c.plants)
}

func (c *Catalog) Len() int {
	return len(c.plants)
}

func (c *Catalog) ByID(id string) (models.Plant, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Plant{}, fmt.Errorf("plant %q: %w", id, ErrNotFound)
	}
	return c.plants[i], nil
}

func (c *Catalog) ByCategory(category string) []models.Plant {
	out := []models.Plant{}
	for _, p := range c.plants {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns up to count top rated plants (rating >= 4.6), best first.
func (c *Catalog) Featured(count int) []models.Plant {
	if count <= 0 {
		count = DefaultFeaturedCount
	}
	top := []models.Plant{}
	for _, p := range c.plants {
		if p.Rating >= featuredMinRating {
			top = append(top, p)
		}
	}
	slices.SortStableFunc(top, func(a, b models.Plant) int { return compareFloat(b.Rating, a.Rating) })
	if len(top) > count {
		top = top[:count]
	}
	return top
}

// Related picks plants from Featured(count) sharing the category or the care
// level of p, excluding p itself.
func (c *Catalog) Related(p models.Plant, count int) []models.Plant {
	out := []models.Plant{}
	for _, f := range c.Featured(count) {
		if f.ID == p.ID {
			continue
		}
		if f.Category == p.Category || f.CareLevel == p.CareLevel {
			out = append(out, f)
		}
	}
	return out
}

func (c *Catalog) Search(cr Criteria) []models.Plant {
	return Query(c.plants, cr)
}

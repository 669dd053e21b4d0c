package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Skotchmaster/green_homes/internal/models"
)

const (
	SortRating    = "rating"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
	// SortNewest reverses the filtered order. Records carry no creation time,
	// so catalog order stands in for recency.
	SortNewest = "newest"
)

const (
	DefaultPriceMin = 0
	DefaultPriceMax = 2000
)

// anyValue is what the filter widgets send for "no constraint".
const anyValue = "all"

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func DefaultPriceRange() PriceRange {
	return PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax}
}

type Criteria struct {
	Query            string      `json:"query,omitempty"`
	Category         string      `json:"category,omitempty"`
	CareLevel        string      `json:"careLevel,omitempty"`
	LightRequirement string      `json:"lightRequirement,omitempty"`
	Size             string      `json:"size,omitempty"`
	PriceRange       *PriceRange `json:"priceRange,omitempty"`
	InStock          bool        `json:"inStock,omitempty"`
	Rating           float64     `json:"rating,omitempty"`
	SortBy           string      `json:"sortBy,omitempty"`
}

func (c Criteria) priceRange() PriceRange {
	if c.PriceRange == nil {
		return DefaultPriceRange()
	}
	return *c.PriceRange
}

func (c Criteria) sortBy() string {
	switch c.SortBy {
	case SortPriceLow, SortPriceHigh, SortName, SortNewest:
		return c.SortBy
	default:
		return SortRating
	}
}

func constrained(v string) bool {
	return v != "" && v != anyValue
}

func matchesText(p models.Plant, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.ScientificName), term) ||
		strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	for _, f := range p.Features {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func (c Criteria) Match(p models.Plant) bool {
	if !matchesText(p, strings.ToLower(c.Query)) {
		return false
	}
	if constrained(c.Category) && p.Category != c.Category {
		return false
	}
	if constrained(c.CareLevel) && p.CareLevel != c.CareLevel {
		return false
	}
	if constrained(c.LightRequirement) && p.LightRequirement != c.LightRequirement {
		return false
	}
	if constrained(c.Size) && p.Size != c.Size {
		return false
	}
	pr := c.priceRange()
	if p.Price < pr.Min || p.Price > pr.Max {
		return false
	}
	if c.InStock && p.Stock <= 0 {
		return false
	}
	if c.Rating > 0 && p.Rating < c.Rating {
		return false
	}
	return true
}

// Query returns the plants matching every supplied criterion, ordered by c.SortBy.
// The input slice is never modified.
func Query(plants []models.Plant, c Criteria) []models.Plant {
	out := make([]models.Plant, 0, len(plants))
	for _, p := range plants {
		if c.Match(p) {
			out = append(out, p)
		}
	}

	switch c.sortBy() {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b models.Plant) int { return compareFloat(a.Price, b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b models.Plant) int { return compareFloat(b.Price, a.Price) })
	case SortName:
		col := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b models.Plant) int { return col.CompareString(a.Name, b.Name) })
	case SortNewest:
		slices.Reverse(out)
	default:
		slices.SortStableFunc(out, func(a, b models.Plant) int { return compareFloat(b.Rating, a.Rating) })
	}
	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

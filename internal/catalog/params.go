package catalog

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	ParamSearch           = "search"
	ParamCategory         = "category"
	ParamCareLevel        = "careLevel"
	ParamLightRequirement = "lightRequirement"
	ParamSize             = "size"
	ParamInStock          = "inStock"
	ParamRating           = "rating"
	ParamSortBy           = "sortBy"
	ParamPriceMin         = "priceMin"
	ParamPriceMax         = "priceMax"
)

func parseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func categorical(s string) string {
	if s == anyValue {
		return ""
	}
	return s
}

// ParseCriteria reads criteria from URL query parameters. Missing or malformed
// values fall back to "no constraint".
func ParseCriteria(q url.Values) Criteria {
	c := Criteria{
		Query:            q.Get(ParamSearch),
		Category:         categorical(q.Get(ParamCategory)),
		CareLevel:        categorical(q.Get(ParamCareLevel)),
		LightRequirement: categorical(q.Get(ParamLightRequirement)),
		Size:             categorical(q.Get(ParamSize)),
		InStock:          q.Get(ParamInStock) == "true",
		Rating:           parseFloatDefault(q.Get(ParamRating), 0),
		SortBy:           q.Get(ParamSortBy),
	}
	if c.Rating < 0 {
		c.Rating = 0
	}
	if c.SortBy == "" {
		c.SortBy = SortRating
	}

	if q.Has(ParamPriceMin) || q.Has(ParamPriceMax) {
		c.PriceRange = &PriceRange{
			Min: parseFloatDefault(q.Get(ParamPriceMin), DefaultPriceMin),
			Max: parseFloatDefault(q.Get(ParamPriceMax), DefaultPriceMax),
		}
	}
	return c
}

// Values encodes c as URL query parameters, omitting criteria at their defaults.
func (c Criteria) Values() url.Values {
	v := url.Values{}
	if c.Query != "" {
		v.Set(ParamSearch, c.Query)
	}
	if constrained(c.Category) {
		v.Set(ParamCategory, c.Category)
	}
	if constrained(c.CareLevel) {
		v.Set(ParamCareLevel, c.CareLevel)
	}
	if constrained(c.LightRequirement) {
		v.Set(ParamLightRequirement, c.LightRequirement)
	}
	if constrained(c.Size) {
		v.Set(ParamSize, c.Size)
	}
	if c.InStock {
		v.Set(ParamInStock, "true")
	}
	if c.Rating > 0 {
		v.Set(ParamRating, formatFloat(c.Rating))
	}
	if c.SortBy != "" && c.SortBy != SortRating {
		v.Set(ParamSortBy, c.SortBy)
	}
	pr := c.priceRange()
	if pr.Min > DefaultPriceMin {
		v.Set(ParamPriceMin, formatFloat(pr.Min))
	}
	if pr.Max < DefaultPriceMax {
		v.Set(ParamPriceMax, formatFloat(pr.Max))
	}
	return v
}

// ActiveFilters lists human readable labels for every constraint in effect.
func (c Criteria) ActiveFilters() []string {
	active := []string{}
	if constrained(c.Category) {
		active = append(active, "Category: "+c.Category)
	}
	if constrained(c.CareLevel) {
		active = append(active, "Care: "+c.CareLevel)
	}
	if constrained(c.LightRequirement) {
		active = append(active, "Light: "+c.LightRequirement)
	}
	if constrained(c.Size) {
		active = append(active, "Size: "+c.Size)
	}
	if c.InStock {
		active = append(active, "In Stock Only")
	}
	if c.Rating > 0 {
		active = append(active, formatFloat(c.Rating)+"+ Stars")
	}
	pr := c.priceRange()
	if pr.Min > DefaultPriceMin || pr.Max < DefaultPriceMax {
		active = append(active, fmt.Sprintf("₹%s - ₹%s", formatFloat(pr.Min), formatFloat(pr.Max)))
	}
	return active
}

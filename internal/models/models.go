package models

import (
	"errors"
	"fmt"
	"math"
)

const (
	CategoryIndoor  = "indoor"
	CategoryOutdoor = "outdoor"

	CareBeginner     = "beginner"
	CareIntermediate = "intermediate"
	CareExpert       = "expert"

	LightLow    = "low"
	LightMedium = "medium"
	LightHigh   = "high"

	WaterDaily    = "daily"
	WaterWeekly   = "weekly"
	WaterBiWeekly = "bi-weekly"
	WaterMonthly  = "monthly"

	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// PotRate is the share of the base price charged for the decorative pot add-on.
const PotRate = 0.1

const lowStockThreshold = 5

var ErrInvalidPlant = errors.New("invalid plant")

type CareInstructions struct {
	Watering    string `json:"watering"`
	Sunlight    string `json:"sunlight"`
	Soil        string `json:"soil"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Fertilizer  string `json:"fertilizer"`
}

type Plant struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	ScientificName    string           `json:"scientificName"`
	Category          string           `json:"category"`
	Price             float64          `json:"price"`
	OriginalPrice     *float64         `json:"originalPrice,omitempty"`
	Images            []string         `json:"images"`
	Description       string           `json:"description"`
	CareLevel         string           `json:"careLevel"`
	LightRequirement  string           `json:"lightRequirement"`
	WateringFrequency string           `json:"wateringFrequency"`
	Size              string           `json:"size"`
	Stock             int              `json:"stock"`
	Rating            float64          `json:"rating"`
	ReviewCount       int              `json:"reviewCount"`
	Features          []string         `json:"features"`
	CareInstructions  CareInstructions `json:"careInstructions"`
	Benefits          []string         `json:"benefits"`
	SeasonalInfo      string           `json:"seasonalInfo"`
	PotIncluded       bool             `json:"potIncluded"`
	DeliveryTime      string           `json:"deliveryTime"`
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func (p Plant) Validate() error {
	switch {
	case p.ID == "":
		return fmt.Errorf("id is empty: %w", ErrInvalidPlant)
	case p.Price <= 0:
		return fmt.Errorf("plant %s: price must be positive: %w", p.ID, ErrInvalidPlant)
	case p.Stock < 0:
		return fmt.Errorf("plant %s: stock cannot be negative: %w", p.ID, ErrInvalidPlant)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("plant %s: rating out of [0,5]: %w", p.ID, ErrInvalidPlant)
	case !oneOf(p.Category, CategoryIndoor, CategoryOutdoor):
		return fmt.Errorf("plant %s: unknown category %q: %w", p.ID, p.Category, ErrInvalidPlant)
	case !oneOf(p.CareLevel, CareBeginner, CareIntermediate, CareExpert):
		return fmt.Errorf("plant %s: unknown care level %q: %w", p.ID, p.CareLevel, ErrInvalidPlant)
	case !oneOf(p.LightRequirement, LightLow, LightMedium, LightHigh):
		return fmt.Errorf("plant %s: unknown light requirement %q: %w", p.ID, p.LightRequirement, ErrInvalidPlant)
	case !oneOf(p.WateringFrequency, WaterDaily, WaterWeekly, WaterBiWeekly, WaterMonthly):
		return fmt.Errorf("plant %s: unknown watering frequency %q: %w", p.ID, p.WateringFrequency, ErrInvalidPlant)
	case !oneOf(p.Size, SizeSmall, SizeMedium, SizeLarge):
		return fmt.Errorf("plant %s: unknown size %q: %w", p.ID, p.Size, ErrInvalidPlant)
	}
	return nil
}

func (p Plant) InStock() bool {
	return p.Stock > 0
}

func (p Plant) LowStock() bool {
	return p.Stock > 0 && p.Stock <= lowStockThreshold
}

// DiscountPercent is the whole-number markdown against OriginalPrice, 0 without one.
func (p Plant) DiscountPercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100))
}

func (p Plant) PotPrice() float64 {
	return math.Round(p.Price * PotRate)
}

func (p Plant) UnitPrice(potOption bool) float64 {
	if potOption {
		return p.Price + p.Price*PotRate
	}
	return p.Price
}

type CartItem struct {
	Plant        Plant  `json:"plant"`
	Quantity     int    `json:"quantity"`
	SelectedSize string `json:"selectedSize,omitempty"`
	PotOption    bool   `json:"potOption"`
}

// Matches reports whether the line has the given merge key.
func (i CartItem) Matches(plantID, size string, potOption bool) bool {
	return i.Plant.ID == plantID && i.SelectedSize == size && i.PotOption == potOption
}

// LineTotal is the unrounded value of the line, pot surcharge included.
func (i CartItem) LineTotal() float64 {
	v := i.Plant.Price * float64(i.Quantity)
	if i.PotOption {
		v += i.Plant.Price * PotRate * float64(i.Quantity)
	}
	return v
}

type Cart struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

func EmptyCart() Cart {
	return Cart{Items: []CartItem{}}
}

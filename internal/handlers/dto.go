package handlers

import (
	"strconv"

	"github.com/Skotchmaster/green_homes/internal/models"
)

// PlantView is a plant with the figures the storefront derives for display.
type PlantView struct {
	models.Plant
	InStock         bool    `json:"inStock"`
	LowStock        bool    `json:"lowStock"`
	DiscountPercent int     `json:"discountPercent"`
	PotPrice        float64 `json:"potPrice"`
}

func viewOf(p models.Plant) PlantView {
	return PlantView{
		Plant:           p,
		InStock:         p.InStock(),
		LowStock:        p.LowStock(),
		DiscountPercent: p.DiscountPercent(),
		PotPrice:        p.PotPrice(),
	}
}

func viewsOf(plants []models.Plant) []PlantView {
	out := make([]PlantView, len(plants))
	for i, p := range plants {
		out[i] = viewOf(p)
	}
	return out
}

type AddItemRequest struct {
	PlantID   string `json:"plantId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	PotOption bool   `json:"potOption"`
}

type UpdateItemRequest struct {
	Quantity *int `json:"quantity"`
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

package cart

import (
	"math"
	"slices"

	"github.com/Skotchmaster/green_homes/internal/models"
)

// Reduce applies a to state and returns the next cart. It never mutates the
// items slice of state. Unknown action types return state unchanged.
func Reduce(state models.Cart, a Action) models.Cart {
	switch a.Type {
	case ActionAdd:
		return add(state, a)
	case ActionRemove:
		return remove(state, a.PlantID)
	case ActionUpdateQuantity:
		if a.Quantity <= 0 {
			return remove(state, a.PlantID)
		}
		return updateQuantity(state, a.PlantID, a.Quantity)
	case ActionClear:
		return models.EmptyCart()
	case ActionLoad:
		if a.Cart == nil {
			return models.EmptyCart()
		}
		loaded := *a.Cart
		loaded.Items = slices.Clone(loaded.Items)
		if loaded.Items == nil {
			loaded.Items = []models.CartItem{}
		}
		return loaded
	}
	return state
}

func add(state models.Cart, a Action) models.Cart {
	if a.Plant == nil {
		return state
	}
	qty := a.Quantity
	if qty < 1 {
		qty = 1
	}

	items := slices.Clone(state.Items)
	i := slices.IndexFunc(items, func(it models.CartItem) bool {
		return it.Matches(a.Plant.ID, a.Options.Size, a.Options.PotOption)
	})
	if i >= 0 {
		items[i].Quantity += qty
	} else {
		items = append(items, models.CartItem{
			Plant:        *a.Plant,
			Quantity:     qty,
			SelectedSize: a.Options.Size,
			PotOption:    a.Options.PotOption,
		})
	}
	return recalculate(items)
}

func remove(state models.Cart, plantID string) models.Cart {
	items := make([]models.CartItem, 0, len(state.Items))
	for _, it := range state.Items {
		if it.Plant.ID != plantID {
			items = append(items, it)
		}
	}
	return recalculate(items)
}

func updateQuantity(state models.Cart, plantID string, qty int) models.Cart {
	items := slices.Clone(state.Items)
	for i := range items {
		if items[i].Plant.ID == plantID {
			items[i].Quantity = qty
		}
	}
	return recalculate(items)
}

func recalculate(items []models.CartItem) models.Cart {
	if items == nil {
		items = []models.CartItem{}
	}
	var total float64
	count := 0
	for _, it := range items {
		total += it.LineTotal()
		count += it.Quantity
	}
	return models.Cart{
		Items:     items,
		Total:     math.Round(total*100) / 100,
		ItemCount: count,
	}
}

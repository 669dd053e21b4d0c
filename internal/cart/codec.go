package cart

import (
	"encoding/json"
	"fmt"

	"github.com/Skotchmaster/green_homes/internal/models"
)

// Encode serializes the whole cart, plant snapshots included.
func Encode(c models.Cart) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (models.Cart, error) {
	var c models.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c, nil
}

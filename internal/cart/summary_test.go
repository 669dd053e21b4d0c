package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/green_homes/internal/models"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		total     float64
		shipping  string
		grand     string
		remaining string
	}{
		{name: "empty", total: 0, shipping: "50", grand: "50", remaining: "75"},
		{name: "below threshold", total: 74.99, shipping: "50", grand: "124.99", remaining: "0.01"},
		{name: "at threshold", total: 75, shipping: "0", grand: "75", remaining: "0"},
		{name: "pot order", total: 1097.8, shipping: "0", grand: "1097.8", remaining: "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := Summarize(models.Cart{Total: tt.total, ItemCount: 1})
			assert.Equal(t, tt.shipping, s.Shipping.String())
			assert.Equal(t, tt.grand, s.Total.String())
			assert.Equal(t, tt.remaining, s.FreeShippingRemaining.String())
		})
	}
}

func TestSummarize_JSON(t *testing.T) {
	t.Parallel()

	c := Reduce(models.EmptyCart(), Add(snakePlant(), 2, Options{PotOption: true}))
	data, err := json.Marshal(Summarize(c))
	require.NoError(t, err)

	assert.JSONEq(t, `{"itemCount":2,"subtotal":"1097.8","shipping":"0","total":"1097.8","freeShippingRemaining":"0"}`, string(data))
}

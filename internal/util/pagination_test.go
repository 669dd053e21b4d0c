package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, size         int
		wantOffset, wantLn int
	}{
		{page: 1, size: 10, wantOffset: 0, wantLn: 10},
		{page: 3, size: 5, wantOffset: 10, wantLn: 5},
		{page: 0, size: 0, wantOffset: 0, wantLn: DefaultPageSize},
		{page: -2, size: 500, wantOffset: 0, wantLn: DefaultPageSize},
	}
	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, offset)
		assert.Equal(t, tt.wantLn, limit)
	}
}

func TestWindow(t *testing.T) {
	t.Parallel()

	lo, hi := Window(10, 4, 4)
	assert.Equal(t, []int{4, 8}, []int{lo, hi})

	lo, hi = Window(10, 8, 4)
	assert.Equal(t, []int{8, 10}, []int{lo, hi})

	lo, hi = Window(10, 20, 4)
	assert.Equal(t, []int{10, 10}, []int{lo, hi})
}

func TestNewMeta(t *testing.T) {
	t.Parallel()

	m := NewMeta(2, 4, 4, 10)
	assert.Equal(t, Meta{Page: 2, Size: 4, Total: 10, TotalPages: 3, HasPrev: true, HasNext: true}, m)

	last := NewMeta(3, 8, 4, 10)
	assert.False(t, last.HasNext)
}

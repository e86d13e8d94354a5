package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailsKnownProduct(t *testing.T) {
	c := Default()

	p, err := c.Details("LAPTOP001")
	require.NoError(t, err)
	assert.Equal(t, "HP Pavilion 15", p.Name)
	assert.Equal(t, "MXN", p.Currency)
	assert.Equal(t, 25, p.Stock)
}

func TestDetailsUnknownProduct(t *testing.T) {
	c := Default()

	_, err := c.Details("UNKNOWN999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "UNKNOWN999")
}

func TestStock(t *testing.T) {
	c := Default()

	info, err := c.Stock("LAPTOP001")
	require.NoError(t, err)
	assert.Equal(t, "LAPTOP001", info.ProductID)
	assert.True(t, info.Available)
	assert.Equal(t, 25, info.Quantity)

	_, err = c.Stock("NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStockUnavailableWhenZero(t *testing.T) {
	c := New([]Product{{ID: "X1", Name: "Out of stock item", Stock: 0}})

	info, err := c.Stock("X1")
	require.NoError(t, err)
	assert.False(t, info.Available)
	assert.Equal(t, 0, info.Quantity)
}

func TestSearch(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "by product name", term: "pavilion", want: []string{"LAPTOP001"}},
		{name: "by brand", term: "logitech", want: []string{"MOUSE001"}},
		{name: "case insensitive", term: "MACBOOK", want: []string{"LAPTOP002"}},
		{name: "by description", term: "laptop", want: []string{"LAPTOP001"}},
		{name: "description word absent from name", term: "unified memory", want: []string{"LAPTOP002"}},
		{name: "no match", term: "toaster", want: nil},
		{name: "empty term", term: "  ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Search(tt.term, 0)
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			if tt.want == nil {
				assert.Empty(t, ids)
				return
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSearchLimit(t *testing.T) {
	c := Default()

	got := c.Search("apple", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "LAPTOP002", got[0].ID)
}

func TestByCategory(t *testing.T) {
	c := Default()

	assert.Len(t, c.ByCategory("accessories", 0), 1)
	assert.Len(t, c.ByCategory("Electronics", 0), 4)
	assert.Empty(t, c.ByCategory("groceries", 0))
}

func TestHistoryDeterministic(t *testing.T) {
	c := Default()

	first, err := c.History("LAPTOP001", 30)
	require.NoError(t, err)
	second, err := c.History("LAPTOP001", 30)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first.Points, 30)
	assert.Equal(t, 15999.99, first.CurrentPrice)
	assert.LessOrEqual(t, first.LowestPrice, first.HighestPrice)

	// chronological, oldest first
	for i := 1; i < len(first.Points); i++ {
		assert.Less(t, first.Points[i-1].Date, first.Points[i].Date)
	}
	// within the ±10% variation band
	for _, pt := range first.Points {
		assert.InDelta(t, 15999.99, pt.Price, 15999.99*0.1+0.01)
	}
}

func TestHistoryDefaultsAndNotFound(t *testing.T) {
	c := Default()

	h, err := c.History("MOUSE001", 0)
	require.NoError(t, err)
	assert.Len(t, h.Points, 30)

	_, err = c.History("NOPE", 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductsReturnsCopy(t *testing.T) {
	c := Default()

	out := c.Products()
	require.Len(t, out, c.Len())
	out[0].Name = "mutated"

	p, err := c.Details(out[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", p.Name)
}

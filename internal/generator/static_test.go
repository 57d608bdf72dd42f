package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticContentExtractsStoreName(t *testing.T) {
	s := NewStaticContent()

	tests := []struct {
		prompt string
		want   string
	}{
		{"a store called Acme Goods selling mugs", "Acme Goods"},
		{"a shop named Borealis", "Borealis"},
		{`a store called "Copper Lane" for jewelry`, "Copper Lane"},
		{"a store selling mugs", ""},
		{"a store called lowercase brand", ""},
	}
	for _, tt := range tests {
		got, err := s.ExtractStoreName(context.Background(), tt.prompt)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.prompt)
	}
}

func TestStaticContentProductsAreUniqueAndComplete(t *testing.T) {
	s := NewStaticContent()

	var titles []string
	for i := 0; i < 4; i++ {
		p, err := s.GenerateProduct(context.Background(), "fashion", "Acme", titles)
		require.NoError(t, err)
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.ImageData)
		assert.Greater(t, p.Price, 0.0)
		assert.NotContains(t, titles, p.Title)
		titles = append(titles, p.Title)
	}
}

func TestStaticContentCollectionsReferenceRealProducts(t *testing.T) {
	s := NewStaticContent()
	products := []string{"Mug", "Kettle", "Tray", "Bowl"}

	c, err := s.GenerateCollection(context.Background(), "general", "Acme", products, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bestsellers", c.Name)
	assert.NotEmpty(t, c.ImageData)
	for _, ref := range c.ProductNames {
		assert.Contains(t, products, ref)
	}

	c2, err := s.GenerateCollection(context.Background(), "general", "Acme", products, []string{c.Name})
	require.NoError(t, err)
	assert.Equal(t, "New Arrivals", c2.Name)
}

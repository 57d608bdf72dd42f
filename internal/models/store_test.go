package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Acme", "acme"},
		{"Acme Outfitters", "acme-outfitters"},
		{"  Café & Co.  ", "café-co"},
		{"UPPER   lower", "upper-lower"},
		{"---", ""},
		{"Store #1 (NYC)", "store-1-nyc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.name))
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	names := []string{"Acme Outfitters", "store-1-nyc", "Café & Co."}
	for _, name := range names {
		once := Slugify(name)
		assert.Equal(t, once, Slugify(once))
		// Deterministic: same input, same output.
		assert.Equal(t, once, Slugify(name))
	}
}

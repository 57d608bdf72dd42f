package cache

import (
	"strings"

	"storegen/internal/models"
)

// Serialized cache entries must stay small: inline-encoded images over
// this many bytes are replaced with a truncated marker. The full value
// lives only in memory and in the cloud copy.
const inlineImageLimit = 2048

const truncatedMarker = "...[truncated]"

func truncateInlineImage(s string) string {
	if strings.HasPrefix(s, "data:image/") && len(s) > inlineImageLimit {
		return s[:30] + truncatedMarker
	}
	return s
}

func truncateText(s string, limit int) string {
	if len(s) > limit {
		return s[:limit] + truncatedMarker
	}
	return s
}

// truncateStore returns a copy of the store fit for on-device
// serialization. The input is not modified.
func truncateStore(s models.Store) models.Store {
	s.LogoURL = truncateInlineImage(s.LogoURL)
	s.HeroImage.Src.Large = truncateInlineImage(s.HeroImage.Src.Large)
	s.HeroImage.Src.Medium = truncateInlineImage(s.HeroImage.Src.Medium)
	s.Name = truncateText(s.Name, 1000)
	s.Description = truncateText(s.Description, 2000)

	if len(s.Products) > 0 {
		products := make([]models.Product, len(s.Products))
		copy(products, s.Products)
		for i := range products {
			products[i].Image.Src.Large = truncateInlineImage(products[i].Image.Src.Large)
			products[i].Image.Src.Medium = truncateInlineImage(products[i].Image.Src.Medium)
			products[i].Name = truncateText(products[i].Name, 1000)
			products[i].Description = truncateText(products[i].Description, 2000)
		}
		s.Products = products
	}

	if len(s.Collections) > 0 {
		collections := make([]models.Collection, len(s.Collections))
		copy(collections, s.Collections)
		for i := range collections {
			collections[i].ImageURL = truncateInlineImage(collections[i].ImageURL)
		}
		s.Collections = collections
	}

	return s
}

package shopify

import (
	"storegen/internal/importer"
	"storegen/internal/models"
)

// Map converts the fetched triple into a candidate Store.
func (s *Source) Map(meta importer.Metadata, products []importer.ProductPreview, collections []importer.CollectionPreview) models.Store {
	return importer.BuildCandidate(meta, products, collections, models.SourceShopify)
}

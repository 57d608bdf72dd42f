package generator

import "context"

// ContentGenerator produces copy and image bytes for generated stores.
// Implementations wrap whichever model backend is configured; the
// orchestration below never looks inside the bytes it gets back.
type ContentGenerator interface {
	// ExtractStoreName pulls an explicitly named store out of the
	// prompt, returning "" when the prompt names none.
	ExtractStoreName(ctx context.Context, prompt string) (string, error)

	// SuggestStoreName invents a brand name for the prompt.
	SuggestStoreName(ctx context.Context, prompt string) (string, error)

	// GenerateLogo returns PNG bytes for a brand logo.
	GenerateLogo(ctx context.Context, brandName string) ([]byte, error)

	// GenerateProduct returns one product for the store, avoiding the
	// given titles.
	GenerateProduct(ctx context.Context, storeType, brandName string, excludeTitles []string) (ProductContent, error)

	// GenerateCollection groups existing products into a themed
	// collection, avoiding the given collection names.
	GenerateCollection(ctx context.Context, storeType, brandName string, productNames, excludeNames []string) (CollectionContent, error)
}

type ProductContent struct {
	Title       string
	Description string
	Price       float64
	ImageData   []byte
}

type CollectionContent struct {
	Name         string
	Description  string
	ImageData    []byte
	ProductNames []string
}

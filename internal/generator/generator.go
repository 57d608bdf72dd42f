package generator

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"storegen/internal/ident"
	"storegen/internal/logger"
	"storegen/internal/models"
)

const (
	defaultProductCount    = 6
	defaultCollectionCount = 3
	maxBrandNameLength     = 50
)

// Generator builds a candidate Store from a free-text prompt. Every
// model call can fail independently; failures degrade the store
// (fewer products, placeholder media) instead of aborting it.
type Generator struct {
	content ContentGenerator
	logger  *logger.Logger
}

// Options tune one generation run.
type Options struct {
	NameOverride string
	TypeOverride string
	ProductCount int
	Progress     func(percent int, message string)
}

func New(content ContentGenerator, logger *logger.Logger) *Generator {
	return &Generator{content: content, logger: logger}
}

// Generate produces an unpersisted candidate Store; finalize assigns
// durable identifiers and uploads the inline images.
func (g *Generator) Generate(ctx context.Context, prompt string, opts Options) (models.Store, error) {
	progress := opts.Progress
	if progress == nil {
		progress = func(int, string) {}
	}
	productCount := opts.ProductCount
	if productCount <= 0 {
		productCount = defaultProductCount
	}

	storeType := opts.TypeOverride
	if storeType == "" {
		storeType = InferStoreType(prompt)
	}

	progress(5, "Choosing a name...")
	brandName := g.resolveBrandName(ctx, prompt, opts.NameOverride, storeType)

	progress(15, "Designing a logo...")
	logoURL := g.generateLogo(ctx, brandName)

	products := g.generateProducts(ctx, storeType, brandName, productCount, progress)

	var collections []models.Collection
	if len(products) > 0 {
		progress(80, "Curating collections...")
		collections = g.generateCollections(ctx, storeType, brandName, products)
	} else {
		g.logger.Warn("No products generated for %s, skipping collections", brandName)
	}

	progress(95, "Assembling the store...")
	description := fmt.Sprintf("Discover the finest %s selection at %s.", storeType, brandName)
	store := models.Store{
		Name:            brandName,
		Description:     description,
		LogoURL:         logoURL,
		DataSource:      models.SourceGenerated,
		TemplateVersion: "v1",
		Theme:           models.RandomTheme(models.Theme{}),
		Products:        products,
		Collections:     collections,
		HeroImage: models.ImageRef{
			Src: models.ImageSrc{Large: placeholderURL("Hero Image", "1200x800")},
			Alt: brandName + " hero image",
		},
		Content: map[string]string{
			"hero.title":       fmt.Sprintf("Welcome to %s", brandName),
			"hero.description": description,
			"store.prompt":     prompt,
			"store.type":       storeType,
		},
	}
	progress(100, "Done")
	return store, nil
}

// resolveBrandName walks the naming chain: explicit override, a name
// the prompt itself states, a model suggestion, the first capitalized
// prompt word, then a typed fallback.
func (g *Generator) resolveBrandName(ctx context.Context, prompt, override, storeType string) string {
	if override != "" {
		return clampName(override)
	}

	if name, err := g.content.ExtractStoreName(ctx, prompt); err != nil {
		g.logger.Warn("Store name extraction failed: %v", err)
	} else if name != "" {
		return clampName(name)
	}

	if name, err := g.content.SuggestStoreName(ctx, prompt); err != nil {
		g.logger.Warn("Store name suggestion failed: %v", err)
	} else if name != "" {
		return clampName(name)
	}

	for _, word := range strings.Fields(prompt) {
		if len(word) > 2 && word[0] >= 'A' && word[0] <= 'Z' {
			return clampName(word)
		}
	}

	typed := strings.ToUpper(storeType[:1]) + storeType[1:]
	return fmt.Sprintf("%s Emporium %s", typed, ident.New()[:4])
}

func (g *Generator) generateLogo(ctx context.Context, brandName string) string {
	data, err := g.content.GenerateLogo(ctx, brandName)
	if err != nil || len(data) == 0 {
		if err != nil {
			g.logger.Warn("Logo generation failed for %s: %v", brandName, err)
		}
		return placeholderURL(brandName[:1], "100x100")
	}
	return inlinePNG(data)
}

// generateProducts keeps asking for products until it has enough unique
// titles or runs out of attempts (twice the target).
func (g *Generator) generateProducts(ctx context.Context, storeType, brandName string, count int, progress func(int, string)) []models.Product {
	var products []models.Product
	var titles []string
	maxAttempts := count * 2

	for attempt := 0; attempt < maxAttempts && len(products) < count; attempt++ {
		progress(20+(55*len(products))/count, fmt.Sprintf("Generating product %d of %d...", len(products)+1, count))

		content, err := g.content.GenerateProduct(ctx, storeType, brandName, titles)
		if err != nil {
			g.logger.Warn("Product generation attempt %d failed: %v", attempt+1, err)
			continue
		}
		if content.Title == "" || len(content.ImageData) == 0 {
			g.logger.Warn("Product generation attempt %d returned incomplete data", attempt+1)
			continue
		}
		normalized := strings.ToLower(strings.TrimSpace(content.Title))
		if containsTitle(titles, normalized) {
			g.logger.Debug("Skipping duplicate product title %q", content.Title)
			continue
		}

		price := content.Price
		if price < 0 {
			price = 0
		}
		products = append(products, models.Product{
			ID:          "product-gen-" + ident.New(),
			Name:        content.Title,
			Description: content.Description,
			Price:       price,
			Image: models.ImageRef{
				Src: models.ImageSrc{Medium: inlinePNG(content.ImageData)},
				Alt: content.Title,
			},
		})
		titles = append(titles, normalized)
	}

	if len(products) < count {
		g.logger.Warn("Generated %d of %d products for %s", len(products), count, brandName)
	}
	return products
}

// generateCollections builds up to three collections whose product
// references stay name-keyed; finalize resolves them to identifiers.
func (g *Generator) generateCollections(ctx context.Context, storeType, brandName string, products []models.Product) []models.Collection {
	productNames := make([]string, len(products))
	for i, p := range products {
		productNames[i] = p.Name
	}

	var collections []models.Collection
	var names []string
	for i := 0; i < defaultCollectionCount; i++ {
		content, err := g.content.GenerateCollection(ctx, storeType, brandName, productNames, names)
		if err != nil {
			g.logger.Warn("Collection generation attempt %d failed: %v", i+1, err)
			continue
		}
		if content.Name == "" {
			continue
		}

		imageURL := placeholderURL(content.Name, "400x200")
		if len(content.ImageData) > 0 {
			imageURL = inlinePNG(content.ImageData)
		}
		collections = append(collections, models.Collection{
			ID:          "collection-gen-" + ident.New(),
			Name:        content.Name,
			Description: content.Description,
			ImageURL:    imageURL,
			ProductIDs:  keepKnown(content.ProductNames, productNames),
		})
		names = append(names, content.Name)
	}
	return collections
}

// InferStoreType classifies the prompt into one of the known store
// types by keyword, defaulting to general.
func InferStoreType(prompt string) string {
	keywords := strings.Fields(strings.ToLower(prompt))
	matches := func(candidates ...string) bool {
		for _, word := range keywords {
			for _, c := range candidates {
				if word == c {
					return true
				}
			}
		}
		return false
	}
	switch {
	case matches("clothing", "fashion", "apparel", "wear"):
		return "fashion"
	case matches("tech", "electronics", "gadget", "digital"):
		return "electronics"
	case matches("food", "grocery", "meal", "organic"):
		return "food"
	case matches("jewelry", "accessory", "watch", "luxury"):
		return "jewelry"
	default:
		return "general"
	}
}

func clampName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > maxBrandNameLength {
		return name[:maxBrandNameLength]
	}
	return name
}

func containsTitle(titles []string, title string) bool {
	for _, t := range titles {
		if t == title {
			return true
		}
	}
	return false
}

// keepKnown filters references down to products that actually exist.
func keepKnown(refs, known []string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		for _, k := range known {
			if r == k {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func inlinePNG(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func placeholderURL(text, size string) string {
	return fmt.Sprintf("https://via.placeholder.com/%s.png?text=%s", size, url.QueryEscape(text))
}

package importer

import (
	"fmt"
	"net/url"

	"storegen/internal/models"
)

const descriptionPreviewLimit = 250

// BuildCandidate converts the normalized preview triple into a
// candidate Store for common store creation. Preview identifiers are
// carried through as the entities' local keys; finalize assigns ids
// only where the platform supplied none. Collection product references
// stay as the platform emitted them (names, or local keys) until the
// reconciliation map resolves them.
func BuildCandidate(meta Metadata, products []ProductPreview, collections []CollectionPreview, dataSource string) models.Store {
	store := models.Store{
		Name:        meta.Name,
		Description: meta.Description,
		LogoURL:     meta.LogoURL,
		DataSource:  dataSource,
		Theme: models.RandomTheme(models.Theme{
			PrimaryColor:   meta.PrimaryColor,
			SecondaryColor: meta.SecondaryColor,
		}),
		TemplateVersion: "v1",
		Content: map[string]string{
			"hero.title":       fmt.Sprintf("Welcome to %s", meta.Name),
			"hero.description": meta.Description,
		},
	}
	if meta.Slogan != "" {
		store.Content["brand.slogan"] = meta.Slogan
	}
	if meta.HeroImageURL != "" {
		store.HeroImage = models.ImageRef{
			Src: models.ImageSrc{Large: meta.HeroImageURL, Medium: meta.HeroImageURL},
			Alt: meta.Name,
		}
	} else {
		store.HeroImage = models.ImageRef{
			Src: models.ImageSrc{Large: placeholderFor(meta.Name, "1200x800")},
			Alt: meta.Name,
		}
	}
	if store.LogoURL == "" && meta.Name != "" {
		store.LogoURL = placeholderFor(meta.Name[:1], "100x100")
	}

	for _, p := range products {
		store.Products = append(store.Products, mapProduct(p))
	}
	for _, c := range collections {
		store.Collections = append(store.Collections, models.Collection{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			ImageURL:    c.ImageURL,
			ProductIDs:  append([]string(nil), c.ProductNames...),
		})
	}
	return store
}

func mapProduct(p ProductPreview) models.Product {
	description := p.Description
	if len(description) > descriptionPreviewLimit {
		description = description[:descriptionPreviewLimit] + "..."
	}
	if description == "" {
		description = "No description available."
	}
	price := p.Price
	if price < 0 {
		price = 0
	}
	imageURL := p.ImageURL
	if imageURL == "" {
		imageURL = placeholderFor(p.Name, "400x400")
	}
	alt := p.ImageAlt
	if alt == "" {
		alt = p.Name
	}
	return models.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: description,
		Price:       price,
		Currency:    p.Currency,
		Image: models.ImageRef{
			Src: models.ImageSrc{Large: imageURL, Medium: imageURL},
			Alt: alt,
		},
	}
}

func placeholderFor(text, size string) string {
	return fmt.Sprintf("https://via.placeholder.com/%s.png?text=%s", size, url.QueryEscape(text))
}

package cloud

import (
	"encoding/json"
	"fmt"
	"time"

	"storegen/internal/models"
)

// Row types mirror the remote document collections. Structured fields
// are stored as serialized JSON text so the same schema works on both
// drivers.

type storeRow struct {
	ID              string `gorm:"primaryKey"`
	Name            string
	Slug            string
	Description     string
	LogoURL         string
	HeroImage       string
	Theme           string
	Content         string
	TemplateVersion string
	DataSource      string
	OwnerID         *string
	CreatedAt       time.Time
}

func (storeRow) TableName() string { return "stores" }

type productRow struct {
	ID          string `gorm:"primaryKey"`
	StoreID     string
	Name        string
	Description string
	Price       float64
	Currency    string
	Images      string
	Variants    string
	CreatedAt   time.Time
}

func (productRow) TableName() string { return "store_products" }

type collectionRow struct {
	ID          string `gorm:"primaryKey"`
	StoreID     string
	Name        string
	Description string
	ImageURL    string
	ProductIDs  string
}

func (collectionRow) TableName() string { return "store_collections" }

func storeToRow(s models.Store) (storeRow, error) {
	theme, err := json.Marshal(s.Theme)
	if err != nil {
		return storeRow{}, fmt.Errorf("failed to marshal theme: %w", err)
	}
	content, err := json.Marshal(s.Content)
	if err != nil {
		return storeRow{}, fmt.Errorf("failed to marshal content: %w", err)
	}
	hero, err := json.Marshal(s.HeroImage)
	if err != nil {
		return storeRow{}, fmt.Errorf("failed to marshal hero image: %w", err)
	}
	return storeRow{
		ID:              s.ID,
		Name:            s.Name,
		Slug:            s.Slug,
		Description:     s.Description,
		LogoURL:         s.LogoURL,
		HeroImage:       string(hero),
		Theme:           string(theme),
		Content:         string(content),
		TemplateVersion: s.TemplateVersion,
		DataSource:      s.DataSource,
		OwnerID:         s.OwnerID,
		CreatedAt:       s.CreatedAt,
	}, nil
}

func (r storeRow) toModel() models.Store {
	s := models.Store{
		ID:              r.ID,
		Name:            r.Name,
		Slug:            r.Slug,
		Description:     r.Description,
		LogoURL:         r.LogoURL,
		TemplateVersion: r.TemplateVersion,
		DataSource:      r.DataSource,
		OwnerID:         r.OwnerID,
		CreatedAt:       r.CreatedAt,
	}
	// Malformed sub-documents degrade to zero values.
	if r.Theme != "" {
		json.Unmarshal([]byte(r.Theme), &s.Theme)
	}
	if r.Content != "" {
		json.Unmarshal([]byte(r.Content), &s.Content)
	}
	if r.HeroImage != "" {
		json.Unmarshal([]byte(r.HeroImage), &s.HeroImage)
	}
	return s
}

func productToRow(storeID string, p models.Product) (productRow, error) {
	// The remote shape keeps a flat image URL list.
	images := []string{}
	if url := p.Image.FirstImageURL(); url != "" {
		images = append(images, url)
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return productRow{}, fmt.Errorf("failed to marshal images: %w", err)
	}
	variantsJSON, err := json.Marshal(p.Variants)
	if err != nil {
		return productRow{}, fmt.Errorf("failed to marshal variants: %w", err)
	}
	return productRow{
		ID:          p.ID,
		StoreID:     storeID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		Images:      string(imagesJSON),
		Variants:    string(variantsJSON),
		CreatedAt:   p.CreatedAt,
	}, nil
}

func (r productRow) toModel() models.Product {
	p := models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Currency:    r.Currency,
		CreatedAt:   r.CreatedAt,
	}
	var images []string
	if r.Images != "" {
		json.Unmarshal([]byte(r.Images), &images)
	}
	// Flat URL list becomes the {large, medium} shape products expect.
	if len(images) > 0 {
		p.Image = models.ImageRef{
			Src: models.ImageSrc{Large: images[0], Medium: images[0]},
			Alt: r.Name,
		}
	}
	if r.Variants != "" {
		json.Unmarshal([]byte(r.Variants), &p.Variants)
	}
	return p
}

func collectionToRow(storeID string, c models.Collection) (collectionRow, error) {
	ids, err := json.Marshal(c.ProductIDs)
	if err != nil {
		return collectionRow{}, fmt.Errorf("failed to marshal product ids: %w", err)
	}
	return collectionRow{
		ID:          c.ID,
		StoreID:     storeID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		ProductIDs:  string(ids),
	}, nil
}

func (r collectionRow) toModel() models.Collection {
	c := models.Collection{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
	if r.ProductIDs != "" {
		json.Unmarshal([]byte(r.ProductIDs), &c.ProductIDs)
	}
	return c
}

// updateColumns filters a partial update down to patchable header
// columns, serializing structured values. Products, collections and
// settings never pass through.
func updateColumns(updates map[string]interface{}) (map[string]interface{}, error) {
	columns := map[string]interface{}{}
	for key, value := range updates {
		switch key {
		case "products", "collections", "settings":
			continue
		case "name", "description", "logo_url", "template_version", "data_source":
			columns[key] = value
		case "theme", "content", "hero_image":
			data, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal %s update: %w", key, err)
			}
			columns[key] = string(data)
		}
	}
	return columns, nil
}

package models

import (
	"strings"
	"time"
	"unicode"
)

// Store is one merchant's catalog, theme and content. Created once by
// generation or import finalize, mutated in place afterwards.
type Store struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Description     string            `json:"description"`
	LogoURL         string            `json:"logo_url"`
	HeroImage       ImageRef          `json:"hero_image"`
	Theme           Theme             `json:"theme"`
	Content         map[string]string `json:"content"`
	Products        []Product         `json:"products"`
	Collections     []Collection      `json:"collections"`
	TemplateVersion string            `json:"template_version"`
	DataSource      string            `json:"data_source"`
	OwnerID         *string           `json:"owner_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type Theme struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	FontFamily     string `json:"font_family"`
	Layout         string `json:"layout"`
}

type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	Currency    string           `json:"currency"`
	Image       ImageRef         `json:"image"`
	Variants    []ProductVariant `json:"variants"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ProductVariant is carried through import and persistence untouched.
type ProductVariant struct {
	ID         string                 `json:"id"`
	SKU        string                 `json:"sku"`
	Price      float64                `json:"price"`
	Attributes map[string]interface{} `json:"attributes"`
}

type Collection struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	ProductIDs  []string `json:"product_ids"`
}

// ImageRef holds the durable URLs for one image. Before finalization the
// fields may transiently hold inline-encoded data URIs.
type ImageRef struct {
	Src ImageSrc `json:"src"`
	Alt string   `json:"alt"`
}

type ImageSrc struct {
	Large  string `json:"large"`
	Medium string `json:"medium"`
}

// DataSource values for Store.DataSource.
const (
	SourceGenerated   = "ai"
	SourceWizard      = "wizard"
	SourceShopify     = "shopify"
	SourceBigCommerce = "bigcommerce"
)

// Slugify derives a URL-safe slug from a store name. Deterministic and
// idempotent: lowercased, runs of non-alphanumerics collapse to single
// hyphens, leading/trailing hyphens trimmed.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// FirstImageURL returns the best available URL for a product image,
// preferring the large rendition.
func (r ImageRef) FirstImageURL() string {
	if r.Src.Large != "" {
		return r.Src.Large
	}
	return r.Src.Medium
}

package importer

import (
	"context"
	"errors"

	"storegen/internal/models"
)

// ErrCollectionsNotSupported is returned by sources whose platform has
// no collection catalog.
var ErrCollectionsNotSupported = errors.New("source platform does not support collections")

// Credentials identify one remote store.
type Credentials struct {
	Domain      string `json:"domain"`
	AccessToken string `json:"access_token"`
}

// Metadata is the store-level information fetched on connect.
type Metadata struct {
	Name           string `json:"name"`
	Domain         string `json:"domain"`
	Currency       string `json:"currency"`
	Description    string `json:"description"`
	LogoURL        string `json:"logo_url"`
	HeroImageURL   string `json:"hero_image_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	Slogan         string `json:"slogan"`
}

// ProductPreview is the normalized shape both platforms converge on.
type ProductPreview struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	ImageURL    string  `json:"image_url"`
	ImageAlt    string  `json:"image_alt"`
	SKU         string  `json:"sku"`
	Tags        string  `json:"tags"`
}

// CollectionPreview references its products by name; stable identifiers
// are only assigned at finalize.
type CollectionPreview struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"image_url"`
	ProductNames []string `json:"product_names"`
}

// Page carries pagination state between fetches. Cursor is opaque to
// the session: a server-side cursor for one platform, a stringified
// offset for the other.
type Page struct {
	Cursor  string `json:"cursor"`
	HasMore bool   `json:"has_more"`
}

// Source is one import platform. Adding a platform means adding an
// implementation, not threading a new branch through the wizard.
type Source interface {
	Name() string
	TotalSteps() int
	SupportsCollections() bool
	FetchMetadata(ctx context.Context, creds Credentials) (Metadata, error)
	FetchProductsPage(ctx context.Context, creds Credentials, first int, cursor string) ([]ProductPreview, Page, error)
	FetchCollectionsPage(ctx context.Context, creds Credentials, first int, cursor string) ([]CollectionPreview, Page, error)
	Map(meta Metadata, products []ProductPreview, collections []CollectionPreview) models.Store
}

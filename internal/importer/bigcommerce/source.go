package bigcommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storegen/internal/importer"
	"storegen/internal/logger"
	"storegen/internal/models"
)

// Source is the BigCommerce-like import platform: offset-paged product
// fetches over GraphQL, store settings over a separate REST call.
// Collections are not part of this platform's catalog.
type Source struct {
	httpClient *http.Client
	logger     *logger.Logger
}

func NewSource(logger *logger.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (s *Source) Name() string              { return "bigcommerce" }
func (s *Source) TotalSteps() int           { return 4 }
func (s *Source) SupportsCollections() bool { return false }

func (s *Source) baseURL(domain string) string {
	if strings.Contains(domain, "://") {
		return domain
	}
	return "https://" + domain
}

// FetchMetadata reads store settings via the REST-style settings
// endpoint.
func (s *Source) FetchMetadata(ctx context.Context, creds importer.Credentials) (importer.Metadata, error) {
	url := s.baseURL(creds.Domain) + "/api/storefront/settings"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return importer.Metadata{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return importer.Metadata{}, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return importer.Metadata{}, fmt.Errorf("settings request failed: %d - %s", resp.StatusCode, string(body))
	}

	var settings struct {
		StoreName   string `json:"store_name"`
		StoreHash   string `json:"store_hash"`
		Description string `json:"description"`
		Currency    string `json:"currency"`
		Logo        struct {
			Image struct {
				URL     string `json:"url"`
				AltText string `json:"altText"`
			} `json:"image"`
		} `json:"logo"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		return importer.Metadata{}, fmt.Errorf("failed to decode settings: %w", err)
	}

	return importer.Metadata{
		Name:         settings.StoreName,
		Domain:       creds.Domain,
		Currency:     settings.Currency,
		Description:  settings.Description,
		LogoURL:      settings.Logo.Image.URL,
		HeroImageURL: settings.Logo.Image.URL,
	}, nil
}

const productsQuery = `
query ProductsPreview($first: Int!, $offset: Int!) {
  site {
    products(first: $first, offset: $offset) {
      totalCount
      edges {
        node {
          entityId
          name
          sku
          description
          defaultImage { url altText }
          prices { price { value currencyCode } }
        }
      }
    }
  }
}`

// FetchProductsPage pages with an offset carried in the cursor string.
func (s *Source) FetchProductsPage(ctx context.Context, creds importer.Credentials, first int, cursor string) ([]importer.ProductPreview, importer.Page, error) {
	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, importer.Page{}, fmt.Errorf("invalid page cursor %q: %w", cursor, err)
		}
		offset = parsed
	}

	payload, err := json.Marshal(map[string]interface{}{
		"query": productsQuery,
		"variables": map[string]interface{}{
			"first":  first,
			"offset": offset,
		},
	})
	if err != nil {
		return nil, importer.Page{}, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL(creds.Domain)+"/graphql", bytes.NewBuffer(payload))
	if err != nil {
		return nil, importer.Page{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, importer.Page{}, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, importer.Page{}, fmt.Errorf("products request failed: %d - %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Data struct {
			Site struct {
				Products struct {
					TotalCount int `json:"totalCount"`
					Edges      []struct {
						Node struct {
							EntityID     int64  `json:"entityId"`
							Name         string `json:"name"`
							SKU          string `json:"sku"`
							Description  string `json:"description"`
							DefaultImage struct {
								URL     string `json:"url"`
								AltText string `json:"altText"`
							} `json:"defaultImage"`
							Prices struct {
								Price struct {
									Value        float64 `json:"value"`
									CurrencyCode string  `json:"currencyCode"`
								} `json:"price"`
							} `json:"prices"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"products"`
			} `json:"site"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, importer.Page{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		return nil, importer.Page{}, fmt.Errorf("GraphQL errors: %s", strings.Join(messages, ", "))
	}

	products := envelope.Data.Site.Products
	previews := make([]importer.ProductPreview, 0, len(products.Edges))
	for _, edge := range products.Edges {
		node := edge.Node
		previews = append(previews, importer.ProductPreview{
			ID:          strconv.FormatInt(node.EntityID, 10),
			Name:        node.Name,
			Description: node.Description,
			Price:       node.Prices.Price.Value,
			Currency:    node.Prices.Price.CurrencyCode,
			ImageURL:    node.DefaultImage.URL,
			ImageAlt:    node.DefaultImage.AltText,
			SKU:         node.SKU,
		})
	}

	nextOffset := offset + len(previews)
	page := importer.Page{HasMore: nextOffset < products.TotalCount && len(previews) > 0}
	if page.HasMore {
		page.Cursor = strconv.Itoa(nextOffset)
	}
	return previews, page, nil
}

func (s *Source) FetchCollectionsPage(ctx context.Context, creds importer.Credentials, first int, cursor string) ([]importer.CollectionPreview, importer.Page, error) {
	return nil, importer.Page{}, importer.ErrCollectionsNotSupported
}

func (s *Source) Map(meta importer.Metadata, products []importer.ProductPreview, collections []importer.CollectionPreview) models.Store {
	return importer.BuildCandidate(meta, products, collections, models.SourceBigCommerce)
}

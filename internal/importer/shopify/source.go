package shopify

import (
	"context"
	"strconv"

	"storegen/internal/importer"
	"storegen/internal/logger"
)

// Source is the Shopify-like import platform: cursor-paged products and
// collections over the Storefront GraphQL API.
type Source struct {
	client *Client
	logger *logger.Logger
}

func NewSource(apiVersion string, logger *logger.Logger) *Source {
	return &Source{
		client: NewClient(apiVersion, logger),
		logger: logger,
	}
}

func (s *Source) Name() string              { return "shopify" }
func (s *Source) TotalSteps() int           { return 5 }
func (s *Source) SupportsCollections() bool { return true }

func (s *Source) FetchMetadata(ctx context.Context, creds importer.Credentials) (importer.Metadata, error) {
	var data struct {
		Shop struct {
			Name          string `json:"name"`
			Description   string `json:"description"`
			PrimaryDomain struct {
				Host string `json:"host"`
			} `json:"primaryDomain"`
			PaymentSettings struct {
				CurrencyCode string `json:"currencyCode"`
			} `json:"paymentSettings"`
			Brand struct {
				Slogan           string `json:"slogan"`
				ShortDescription string `json:"shortDescription"`
				Logo             struct {
					Image struct {
						URL string `json:"url"`
					} `json:"image"`
				} `json:"logo"`
				CoverImage struct {
					Image struct {
						URL string `json:"url"`
					} `json:"image"`
				} `json:"coverImage"`
				Colors struct {
					Primary []struct {
						Background string `json:"background"`
					} `json:"primary"`
					Secondary []struct {
						Background string `json:"background"`
					} `json:"secondary"`
				} `json:"colors"`
			} `json:"brand"`
		} `json:"shop"`
	}
	if err := s.client.query(ctx, creds, shopMetadataQuery, nil, &data); err != nil {
		return importer.Metadata{}, err
	}

	shop := data.Shop
	meta := importer.Metadata{
		Name:         shop.Name,
		Domain:       shop.PrimaryDomain.Host,
		Currency:     shop.PaymentSettings.CurrencyCode,
		Description:  shop.Description,
		LogoURL:      shop.Brand.Logo.Image.URL,
		HeroImageURL: shop.Brand.CoverImage.Image.URL,
		Slogan:       shop.Brand.Slogan,
	}
	if meta.Description == "" {
		meta.Description = shop.Brand.ShortDescription
	}
	if len(shop.Brand.Colors.Primary) > 0 {
		meta.PrimaryColor = shop.Brand.Colors.Primary[0].Background
	}
	if len(shop.Brand.Colors.Secondary) > 0 {
		meta.SecondaryColor = shop.Brand.Colors.Secondary[0].Background
	}
	return meta, nil
}

func (s *Source) FetchProductsPage(ctx context.Context, creds importer.Credentials, first int, cursor string) ([]importer.ProductPreview, importer.Page, error) {
	variables := map[string]interface{}{"first": first}
	if cursor != "" {
		variables["after"] = cursor
	}

	var data struct {
		Products struct {
			Edges []struct {
				Node struct {
					ID          string   `json:"id"`
					Title       string   `json:"title"`
					Description string   `json:"description"`
					Tags        []string `json:"tags"`
					Images      struct {
						Edges []struct {
							Node struct {
								URL     string `json:"url"`
								AltText string `json:"altText"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"images"`
					Variants struct {
						Edges []struct {
							Node struct {
								SKU   string `json:"sku"`
								Price struct {
									Amount       string `json:"amount"`
									CurrencyCode string `json:"currencyCode"`
								} `json:"price"`
								Image struct {
									URL     string `json:"url"`
									AltText string `json:"altText"`
								} `json:"image"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"variants"`
				} `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
		} `json:"products"`
	}
	if err := s.client.query(ctx, creds, productsQuery, variables, &data); err != nil {
		return nil, importer.Page{}, err
	}

	previews := make([]importer.ProductPreview, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		node := edge.Node
		preview := importer.ProductPreview{
			ID:          node.ID,
			Name:        node.Title,
			Description: node.Description,
			Tags:        joinTags(node.Tags),
		}
		if len(node.Variants.Edges) > 0 {
			variant := node.Variants.Edges[0].Node
			preview.Price, _ = strconv.ParseFloat(variant.Price.Amount, 64)
			preview.Currency = variant.Price.CurrencyCode
			preview.SKU = variant.SKU
			preview.ImageURL = variant.Image.URL
			preview.ImageAlt = variant.Image.AltText
		}
		// Product-level image wins over the variant image.
		if len(node.Images.Edges) > 0 && node.Images.Edges[0].Node.URL != "" {
			preview.ImageURL = node.Images.Edges[0].Node.URL
			preview.ImageAlt = node.Images.Edges[0].Node.AltText
		}
		previews = append(previews, preview)
	}

	page := importer.Page{HasMore: data.Products.PageInfo.HasNextPage}
	if page.HasMore {
		page.Cursor = data.Products.PageInfo.EndCursor
	}
	return previews, page, nil
}

func (s *Source) FetchCollectionsPage(ctx context.Context, creds importer.Credentials, first int, cursor string) ([]importer.CollectionPreview, importer.Page, error) {
	variables := map[string]interface{}{"first": first}
	if cursor != "" {
		variables["after"] = cursor
	}

	var data struct {
		Collections struct {
			Edges []struct {
				Node struct {
					ID          string `json:"id"`
					Title       string `json:"title"`
					Description string `json:"description"`
					Image       struct {
						URL string `json:"url"`
					} `json:"image"`
					Products struct {
						Edges []struct {
							Node struct {
								Title string `json:"title"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"products"`
				} `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
		} `json:"collections"`
	}
	if err := s.client.query(ctx, creds, collectionsQuery, variables, &data); err != nil {
		return nil, importer.Page{}, err
	}

	previews := make([]importer.CollectionPreview, 0, len(data.Collections.Edges))
	for _, edge := range data.Collections.Edges {
		node := edge.Node
		preview := importer.CollectionPreview{
			ID:          node.ID,
			Name:        node.Title,
			Description: node.Description,
			ImageURL:    node.Image.URL,
		}
		for _, p := range node.Products.Edges {
			preview.ProductNames = append(preview.ProductNames, p.Node.Title)
		}
		previews = append(previews, preview)
	}

	page := importer.Page{HasMore: data.Collections.PageInfo.HasNextPage}
	if page.HasMore {
		page.Cursor = data.Collections.PageInfo.EndCursor
	}
	return previews, page, nil
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += ","
		}
		out += t
	}
	return out
}

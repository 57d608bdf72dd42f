package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storegen/internal/importer"
	"storegen/internal/logger"
)

func testLogger() *logger.Logger { return logger.New("error") }

func productEdge(id int) string {
	return fmt.Sprintf(`{
		"node": {
			"id": "gid://shopify/Product/%d",
			"title": "Product %d",
			"description": "Desc %d",
			"tags": ["tag"],
			"images": {"edges": [{"node": {"url": "https://cdn.example.com/%d.png", "altText": "Product %d"}}]},
			"variants": {"edges": [{"node": {"sku": "SKU-%d", "price": {"amount": "%d.50", "currencyCode": "USD"}, "image": {"url": "", "altText": ""}}}]}
		}
	}`, id, id, id, id, id, id, id)
}

func graphqlServer(t *testing.T, handler func(query string, variables map[string]interface{}) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "secret-token", r.Header.Get("X-Shopify-Storefront-Access-Token"))
		var req struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fmt.Fprint(w, handler(req.Query, req.Variables))
	}))
}

func TestFetchProductsPageWalksCursors(t *testing.T) {
	srv := graphqlServer(t, func(query string, variables map[string]interface{}) string {
		require.Contains(t, query, "products(first: $first")
		var edges []string
		var pageInfo string
		if variables["after"] == nil {
			for i := 1; i <= 5; i++ {
				edges = append(edges, productEdge(i))
			}
			pageInfo = `{"hasNextPage": true, "endCursor": "cursor-5"}`
		} else {
			require.Equal(t, "cursor-5", variables["after"])
			for i := 6; i <= 10; i++ {
				edges = append(edges, productEdge(i))
			}
			pageInfo = `{"hasNextPage": false, "endCursor": "cursor-10"}`
		}
		return fmt.Sprintf(`{"data": {"products": {"edges": [%s], "pageInfo": %s}}}`, strings.Join(edges, ","), pageInfo)
	})
	defer srv.Close()

	source := NewSource("2024-01", testLogger())
	creds := importer.Credentials{Domain: srv.URL, AccessToken: "secret-token"}

	var all []importer.ProductPreview
	cursor := ""
	for {
		items, page, err := source.FetchProductsPage(context.Background(), creds, 5, cursor)
		require.NoError(t, err)
		all = append(all, items...)
		if !page.HasMore {
			break
		}
		cursor = page.Cursor
	}

	require.Len(t, all, 10)
	assert.Equal(t, "Product 1", all[0].Name)
	assert.Equal(t, "Product 10", all[9].Name)
	assert.Equal(t, "SKU-3", all[2].SKU)
	assert.InDelta(t, 4.50, all[3].Price, 0.001)
	assert.Equal(t, "USD", all[0].Currency)
	assert.Equal(t, "https://cdn.example.com/7.png", all[6].ImageURL, "product image wins over the variant image")
}

func TestFetchMetadataReadsBrand(t *testing.T) {
	srv := graphqlServer(t, func(query string, variables map[string]interface{}) string {
		require.Contains(t, query, "shop {")
		return `{"data": {"shop": {
			"name": "Acme Goods",
			"description": "",
			"primaryDomain": {"host": "acme.example.com"},
			"paymentSettings": {"currencyCode": "EUR"},
			"brand": {
				"slogan": "Goods for all",
				"shortDescription": "Fine goods since 1999",
				"logo": {"image": {"url": "https://cdn.example.com/logo.png"}},
				"coverImage": {"image": {"url": "https://cdn.example.com/cover.png"}},
				"colors": {
					"primary": [{"background": "#112233"}],
					"secondary": [{"background": "#445566"}]
				}
			}
		}}}`
	})
	defer srv.Close()

	source := NewSource("2024-01", testLogger())
	meta, err := source.FetchMetadata(context.Background(), importer.Credentials{Domain: srv.URL, AccessToken: "secret-token"})
	require.NoError(t, err)

	assert.Equal(t, "Acme Goods", meta.Name)
	assert.Equal(t, "acme.example.com", meta.Domain)
	assert.Equal(t, "EUR", meta.Currency)
	assert.Equal(t, "Fine goods since 1999", meta.Description, "brand short description backfills an empty shop description")
	assert.Equal(t, "https://cdn.example.com/logo.png", meta.LogoURL)
	assert.Equal(t, "https://cdn.example.com/cover.png", meta.HeroImageURL)
	assert.Equal(t, "#112233", meta.PrimaryColor)
	assert.Equal(t, "#445566", meta.SecondaryColor)
	assert.Equal(t, "Goods for all", meta.Slogan)
}

func TestFetchCollectionsPageCollectsProductNames(t *testing.T) {
	srv := graphqlServer(t, func(query string, variables map[string]interface{}) string {
		require.Contains(t, query, "collections(first: $first")
		return `{"data": {"collections": {
			"edges": [{
				"node": {
					"id": "gid://shopify/Collection/1",
					"title": "Kitchen",
					"description": "Kitchen things",
					"image": {"url": "https://cdn.example.com/kitchen.png", "altText": "Kitchen"},
					"products": {"edges": [{"node": {"title": "Mug"}}, {"node": {"title": "Kettle"}}]}
				}
			}],
			"pageInfo": {"hasNextPage": false, "endCursor": ""}
		}}}`
	})
	defer srv.Close()

	source := NewSource("2024-01", testLogger())
	items, page, err := source.FetchCollectionsPage(context.Background(), importer.Credentials{Domain: srv.URL, AccessToken: "secret-token"}, 10, "")
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "Kitchen", items[0].Name)
	assert.Equal(t, []string{"Mug", "Kettle"}, items[0].ProductNames)
	assert.False(t, page.HasMore)
}

func TestQuerySurfacesGraphQLErrors(t *testing.T) {
	srv := graphqlServer(t, func(query string, variables map[string]interface{}) string {
		return `{"data": null, "errors": [{"message": "access denied"}]}`
	})
	defer srv.Close()

	source := NewSource("2024-01", testLogger())
	_, err := source.FetchMetadata(context.Background(), importer.Credentials{Domain: srv.URL, AccessToken: "secret-token"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storegen/internal/importer"
	"storegen/internal/logger"
)

// Client talks to the Shopify Storefront GraphQL API with cursor-based
// pagination.
type Client struct {
	apiVersion string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(apiVersion string, logger *logger.Logger) *Client {
	return &Client{
		apiVersion: apiVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) endpoint(domain string) string {
	if strings.Contains(domain, "://") {
		return fmt.Sprintf("%s/api/%s/graphql.json", domain, c.apiVersion)
	}
	return fmt.Sprintf("https://%s/api/%s/graphql.json", domain, c.apiVersion)
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

func (c *Client) query(ctx context.Context, creds importer.Credentials, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(creds.Domain), bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", creds.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		return fmt.Errorf("GraphQL errors: %s", strings.Join(messages, ", "))
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}

const shopMetadataQuery = `
query ShopMetadata {
  shop {
    name
    description
    primaryDomain { host }
    paymentSettings { currencyCode }
    brand {
      slogan
      shortDescription
      logo { image { url } }
      coverImage { image { url } }
      colors {
        primary { background }
        secondary { background }
      }
    }
  }
}`

const productsQuery = `
query Products($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges {
      node {
        id
        title
        description
        tags
        images(first: 1) { edges { node { url altText } } }
        variants(first: 1) {
          edges {
            node {
              sku
              price { amount currencyCode }
              image { url altText }
            }
          }
        }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

const collectionsQuery = `
query Collections($first: Int!, $after: String) {
  collections(first: $first, after: $after) {
    edges {
      node {
        id
        title
        description
        image { url altText }
        products(first: 50) { edges { node { title } } }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lg/fitcore-go-api/internal/domain"
)

const defaultMaxResults = 20

// getJSON issues a GET and decodes a 200 response into out.
func getJSON(ctx context.Context, client *http.Client, reqURL string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

/* ─── Branded catalog client ─────────────────────────────────────────── */

// BrandedClient queries the branded food catalog:
// GET {base}/food/search?food_name=...&page_number=0&max_results=N with a
// Bearer key; the payload is {"message": ..., "data": {"foods": [...]}}.
type BrandedClient struct {
	baseURL    string
	apiKey     string
	maxResults int
	client     *http.Client
}

// NewBrandedClient creates a branded catalog client.
func NewBrandedClient(baseURL, apiKey string) *BrandedClient {
	return &BrandedClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		maxResults: defaultMaxResults,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *BrandedClient) Provider() domain.Provider { return domain.ProviderBranded }

// Search returns the catalog's records for query.
func (c *BrandedClient) Search(ctx context.Context, query string) ([]Record, error) {
	params := url.Values{}
	params.Set("food_name", query)
	params.Set("page_number", "0")
	params.Set("max_results", strconv.Itoa(c.maxResults))

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		header.Set("Authorization", "Bearer "+c.apiKey)
	}

	var payload struct {
		Message string `json:"message"`
		Data    struct {
			TotalResults string        `json:"total_results"`
			Foods        []BrandedFood `json:"foods"`
		} `json:"data"`
	}
	if err := getJSON(ctx, c.client, c.baseURL+"/food/search?"+params.Encode(), header, &payload); err != nil {
		return nil, fmt.Errorf("branded search: %w", err)
	}

	out := make([]Record, 0, len(payload.Data.Foods))
	for _, f := range payload.Data.Foods {
		out = append(out, f)
	}
	return out, nil
}

/* ─── Open food database client ──────────────────────────────────────── */

// OpenDatabaseClient queries an open food database:
// GET {base}/api/v2/search?search_terms=...&page_size=N returning
// {"count": n, "products": [...]}.
type OpenDatabaseClient struct {
	baseURL   string
	userAgent string
	pageSize  int
	client    *http.Client
}

// NewOpenDatabaseClient creates an open database client. userAgent is sent
// on every request as the database asks callers to identify themselves.
func NewOpenDatabaseClient(baseURL, userAgent string) *OpenDatabaseClient {
	return &OpenDatabaseClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		pageSize:  defaultMaxResults,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *OpenDatabaseClient) Provider() domain.Provider { return domain.ProviderOpenDatabase }

// Search returns the database's products for query.
func (c *OpenDatabaseClient) Search(ctx context.Context, query string) ([]Record, error) {
	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("page_size", strconv.Itoa(c.pageSize))
	params.Set("fields", "code,product_name,product_name_en,generic_name,serving_size,serving_quantity,nutriments")

	header := http.Header{}
	if c.userAgent != "" {
		header.Set("User-Agent", c.userAgent)
	}

	var payload struct {
		Count    int        `json:"count"`
		Products []OpenFood `json:"products"`
	}
	if err := getJSON(ctx, c.client, c.baseURL+"/api/v2/search?"+params.Encode(), header, &payload); err != nil {
		return nil, fmt.Errorf("open database search: %w", err)
	}

	out := make([]Record, 0, len(payload.Products))
	for _, p := range payload.Products {
		out = append(out, p)
	}
	return out, nil
}

package prices

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/aadnk/ZapTechCostCalculator/internal/model"
)

// Client fetches published day prices from hvakosterstrommen.no.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient creates a price API client.
// If baseURL is empty, defaults to "https://www.hvakosterstrommen.no".
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.hvakosterstrommen.no"
	}
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents a non-success response from the price API.
// Price fetches are not retried; callers treat this as fatal.
type APIError struct {
	StatusCode int
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("price API returned status %d for %s", e.StatusCode, e.URL)
}

// FetchDay GETs the hourly prices published for one Europe/Oslo calendar
// day in the given zone. It returns both the parsed records and the raw
// response body, so the cache can persist the provider's JSON verbatim.
func (c *Client) FetchDay(key Key) ([]model.HourlyPrice, []byte, error) {
	url := fmt.Sprintf("%s/api/v1/prices/%s", c.BaseURL, key.URLPath())

	log.Printf("[Prices] Request: GET %s", url)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		log.Printf("[Prices] Request failed: %v (duration: %v)", err, time.Since(start))
		return nil, nil, fmt.Errorf("failed to fetch prices for %s: %w", key, err)
	}
	defer resp.Body.Close()

	log.Printf("[Prices] Response: %d %s (duration: %v, key=%s)",
		resp.StatusCode, resp.Status, time.Since(start), key)

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &APIError{StatusCode: resp.StatusCode, URL: url}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	hours, err := ParseDay(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode prices for %s: %w", key, err)
	}
	return hours, raw, nil
}

// ParseDay decodes one day's raw price JSON (the provider's array form,
// also the on-disk cache format).
func ParseDay(raw []byte) ([]model.HourlyPrice, error) {
	var hours []model.HourlyPrice
	if err := json.Unmarshal(raw, &hours); err != nil {
		return nil, err
	}
	return hours, nil
}

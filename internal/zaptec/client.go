// Package zaptec is a minimal client for the Zaptec cloud API: password
// authentication plus paginated charge-history retrieval.
package zaptec

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aadnk/ZapTechCostCalculator/internal/model"
)

// DefaultPageSize matches the API's maximum history page.
const DefaultPageSize = 500

type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient creates a Zaptec API client.
// If baseURL is empty, defaults to "https://api.zaptec.com".
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.zaptec.com"
	}
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents a non-success response from the Zaptec API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zaptec API returned status %d: %s", e.StatusCode, e.Body)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Authenticate performs the OAuth password grant and returns a bearer
// token. An authentication failure is fatal to the run.
func (c *Client) Authenticate(username, password string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.Client.Post(
		c.BaseURL+"/oauth/token",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("authentication request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("authentication failed: %w",
			&APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))})
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("authentication succeeded but no access_token in response")
	}
	return tok.AccessToken, nil
}

// ChargeHistory fetches one page of charging sessions in [from, to), with
// DetailLevel=1 so sessions include their per-delivery energy details.
func (c *Client) ChargeHistory(token string, from, to time.Time, pageIndex, pageSize int) (*model.ChargingHistory, error) {
	u, err := url.Parse(c.BaseURL + "/api/chargehistory")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("From", from.Format(time.RFC3339))
	q.Set("To", to.Format(time.RFC3339))
	q.Set("PageIndex", strconv.Itoa(pageIndex))
	q.Set("PageSize", strconv.Itoa(pageSize))
	q.Set("DetailLevel", "1")
	u.RawQuery = q.Encode()

	log.Printf("[Zaptec] Request: GET %s (from=%s, to=%s, page=%d)",
		u.Path, from.Format("2006-01-02"), to.Format("2006-01-02"), pageIndex)

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("charge history request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to fetch charge history: %w",
			&APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))})
	}

	var history model.ChargingHistory
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return nil, fmt.Errorf("failed to decode charge history: %w", err)
	}

	log.Printf("[Zaptec] Received %d sessions (page %d of %d)",
		len(history.Data), pageIndex+1, history.Pages)
	return &history, nil
}

// AllSessions walks every history page for the range and concatenates the
// sessions in API order.
func (c *Client) AllSessions(token string, from, to time.Time) ([]model.ChargingSession, error) {
	var sessions []model.ChargingSession
	for page := 0; ; page++ {
		history, err := c.ChargeHistory(token, from, to, page, DefaultPageSize)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, history.Data...)
		if page+1 >= history.Pages || len(history.Data) == 0 {
			break
		}
	}
	return sessions, nil
}

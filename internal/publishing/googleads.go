package publishing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/marketing-autopilot/internal/models"
)

// GoogleAdsConfig carries the OAuth and account credentials for the
// Google Ads REST API.
type GoogleAdsConfig struct {
	ClientID       string
	ClientSecret   string
	DeveloperToken string
	RefreshToken   string
	CustomerID     string
}

func (c GoogleAdsConfig) complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.DeveloperToken != "" &&
		c.RefreshToken != "" && c.CustomerID != ""
}

// GoogleAdsClient creates a campaign budget plus a paused search campaign
// for an ad content item. Campaigns are always created PAUSED so nothing
// spends money without a human enabling it.
type GoogleAdsClient struct {
	Config   GoogleAdsConfig
	BaseURL  string
	TokenURL string
	HTTP     *http.Client
}

// NewAdPublisher returns the Google Ads client, or a mock when credentials
// are incomplete.
func NewAdPublisher(cfg GoogleAdsConfig) AdPublisher {
	if !cfg.complete() {
		return &MockAds{}
	}
	return &GoogleAdsClient{
		Config:   cfg,
		BaseURL:  "https://googleads.googleapis.com/v19",
		TokenURL: "https://oauth2.googleapis.com/token",
	}
}

func (c *GoogleAdsClient) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func (c *GoogleAdsClient) PublishCampaign(ctx context.Context, item *models.ContentItem) (Result, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return Result{Platform: "google_ads", Error: err.Error()}, &PublishError{Platform: "google_ads", Err: err}
	}

	stamp := time.Now().UnixMilli()

	budgetName, err := c.mutate(ctx, token, "campaignBudgets", map[string]any{
		"create": map[string]any{
			"name":             fmt.Sprintf("%s Budget #%d", item.Title, stamp),
			"amountMicros":     "5000000",
			"deliveryMethod":   "STANDARD",
			"explicitlyShared": false,
		},
	})
	if err != nil {
		return Result{Platform: "google_ads", Error: err.Error()}, &PublishError{Platform: "google_ads", Err: err}
	}

	campaignName, err := c.mutate(ctx, token, "campaigns", map[string]any{
		"create": map[string]any{
			"name":                   fmt.Sprintf("%s #%d", item.Title, stamp),
			"advertisingChannelType": "SEARCH",
			"status":                 "PAUSED",
			"manualCpc":              map[string]any{},
			"campaignBudget":         budgetName,
			"networkSettings": map[string]any{
				"targetGoogleSearch":         true,
				"targetSearchNetwork":        true,
				"targetContentNetwork":       false,
				"targetPartnerSearchNetwork": false,
			},
		},
	})
	if err != nil {
		return Result{Platform: "google_ads", Error: err.Error()}, &PublishError{Platform: "google_ads", Err: err}
	}

	return Result{Platform: "google_ads", Success: true, RemoteID: campaignName}, nil
}

// mutate posts a single create operation to a customer resource endpoint and
// returns the resulting resource name.
func (c *GoogleAdsClient) mutate(ctx context.Context, token, resource string, op map[string]any) (string, error) {
	endpoint := fmt.Sprintf("%s/customers/%s/%s:mutate", c.BaseURL, c.Config.CustomerID, resource)
	body, _ := json.Marshal(map[string]any{"operations": []map[string]any{op}})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("developer-token", c.Config.DeveloperToken)
	req.Header.Set("login-customer-id", c.Config.CustomerID)

	res, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("%s mutate: %w", resource, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return "", fmt.Errorf("%s mutate status %d: %s", resource, res.StatusCode, msg)
	}

	var out struct {
		Results []struct {
			ResourceName string `json:"resourceName"`
		} `json:"results"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s mutate decode: %w", resource, err)
	}
	if len(out.Results) == 0 {
		return "", fmt.Errorf("%s mutate: empty result", resource)
	}
	return out.Results[0].ResourceName, nil
}

// accessToken exchanges the stored refresh token for a short-lived access
// token. No caching: publish attempts are rare enough that a fresh exchange
// per attempt keeps the client stateless.
func (c *GoogleAdsClient) accessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {c.Config.ClientID},
		"client_secret": {c.Config.ClientSecret},
		"refresh_token": {c.Config.RefreshToken},
		"grant_type":    {"refresh_token"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return "", fmt.Errorf("token exchange status %d: %s", res.StatusCode, msg)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("token exchange decode: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("token exchange: empty access token")
	}
	return out.AccessToken, nil
}

package publishing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const graphAPIVersion = "v19.0"

// MetaConfig carries the Graph API credentials shared by the Facebook and
// Instagram publishers.
type MetaConfig struct {
	SystemUserToken    string
	FacebookPageID     string
	InstagramAccountID string
}

// FacebookPublisher posts to a Facebook page feed, or to /photos when an
// image URL is supplied.
type FacebookPublisher struct {
	Config  MetaConfig
	BaseURL string
	HTTP    *http.Client
}

// InstagramPublisher posts to an Instagram business account. Instagram
// requires an image: a container is created, polled until processed, then
// published.
type InstagramPublisher struct {
	Config       MetaConfig
	BaseURL      string
	HTTP         *http.Client
	PollInterval time.Duration
	MaxPolls     int
}

// NewSocialPublishers returns the configured Graph API publishers, or mocks
// when the token is absent. Facebook comes first so captions without images
// still reach at least one platform.
func NewSocialPublishers(cfg MetaConfig) []SocialPublisher {
	if cfg.SystemUserToken == "" {
		return []SocialPublisher{
			&MockSocial{Name: "facebook"},
			&MockSocial{Name: "instagram", RequireImage: true},
		}
	}
	base := "https://graph.facebook.com/" + graphAPIVersion
	return []SocialPublisher{
		&FacebookPublisher{Config: cfg, BaseURL: base},
		&InstagramPublisher{Config: cfg, BaseURL: base, PollInterval: 3 * time.Second, MaxPolls: 15},
	}
}

func (p *FacebookPublisher) Platform() string { return "facebook" }

func (p *FacebookPublisher) Publish(ctx context.Context, caption, imageURL string) (Result, error) {
	if p.Config.FacebookPageID == "" {
		err := errors.New("facebook page id not configured")
		return Result{Platform: "facebook", Error: err.Error()}, &PublishError{Platform: "facebook", Err: err}
	}

	pageToken, err := p.pageAccessToken(ctx)
	if err != nil {
		return Result{Platform: "facebook", Error: err.Error()}, &PublishError{Platform: "facebook", Err: err}
	}

	endpoint := fmt.Sprintf("%s/%s/feed", p.BaseURL, p.Config.FacebookPageID)
	body := map[string]any{"message": caption, "access_token": pageToken}
	if imageURL != "" {
		// Photos go through a different edge, with the text as caption.
		endpoint = fmt.Sprintf("%s/%s/photos", p.BaseURL, p.Config.FacebookPageID)
		body = map[string]any{"url": imageURL, "caption": caption, "access_token": pageToken}
	}

	var out struct {
		ID    string    `json:"id"`
		Error *graphErr `json:"error"`
	}
	if err := postGraphJSON(ctx, p.httpClient(), endpoint, body, &out); err != nil {
		return Result{Platform: "facebook", Error: err.Error()}, &PublishError{Platform: "facebook", Err: err}
	}
	if out.Error != nil {
		err := errors.New(out.Error.Message)
		return Result{Platform: "facebook", Error: err.Error()}, &PublishError{Platform: "facebook", Err: err}
	}
	return Result{Platform: "facebook", Success: true, RemoteID: out.ID}, nil
}

// pageAccessToken exchanges the system user token for the page token the
// feed and photo edges require.
func (p *FacebookPublisher) pageAccessToken(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=access_token&access_token=%s",
		p.BaseURL, p.Config.FacebookPageID, url.QueryEscape(p.Config.SystemUserToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	res, err := p.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("page token: %w", err)
	}
	defer res.Body.Close()

	var out struct {
		AccessToken string    `json:"access_token"`
		Error       *graphErr `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("page token decode: %w", err)
	}
	if out.AccessToken == "" {
		if out.Error != nil {
			return "", fmt.Errorf("page token: %s", out.Error.Message)
		}
		return "", errors.New("page token: empty response")
	}
	return out.AccessToken, nil
}

func (p *FacebookPublisher) httpClient() *http.Client {
	if p.HTTP != nil {
		return p.HTTP
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func (p *InstagramPublisher) Platform() string { return "instagram" }

func (p *InstagramPublisher) Publish(ctx context.Context, caption, imageURL string) (Result, error) {
	if imageURL == "" {
		err := errors.New("instagram requires an image")
		return Result{Platform: "instagram", Error: err.Error()}, &PublishError{Platform: "instagram", Err: err}
	}
	if p.Config.InstagramAccountID == "" {
		err := errors.New("instagram account id not configured")
		return Result{Platform: "instagram", Error: err.Error()}, &PublishError{Platform: "instagram", Err: err}
	}

	// Step 1: create the media container.
	var created struct {
		ID    string    `json:"id"`
		Error *graphErr `json:"error"`
	}
	createURL := fmt.Sprintf("%s/%s/media", p.BaseURL, p.Config.InstagramAccountID)
	err := postGraphJSON(ctx, p.httpClient(), createURL, map[string]any{
		"image_url":    imageURL,
		"caption":      caption,
		"access_token": p.Config.SystemUserToken,
	}, &created)
	if err == nil && created.Error != nil {
		err = errors.New(created.Error.Message)
	}
	if err == nil && created.ID == "" {
		err = errors.New("media container: empty id")
	}
	if err != nil {
		return Result{Platform: "instagram", Error: err.Error()}, &PublishError{Platform: "instagram", Err: err}
	}

	// Step 2: poll the container until Graph reports it FINISHED.
	if err := p.waitForContainer(ctx, created.ID); err != nil {
		return Result{Platform: "instagram", Error: err.Error()}, &PublishError{Platform: "instagram", Err: err}
	}

	// Step 3: publish the container.
	var published struct {
		ID    string    `json:"id"`
		Error *graphErr `json:"error"`
	}
	publishURL := fmt.Sprintf("%s/%s/media_publish", p.BaseURL, p.Config.InstagramAccountID)
	err = postGraphJSON(ctx, p.httpClient(), publishURL, map[string]any{
		"creation_id":  created.ID,
		"access_token": p.Config.SystemUserToken,
	}, &published)
	if err == nil && published.Error != nil {
		err = errors.New(published.Error.Message)
	}
	if err != nil {
		return Result{Platform: "instagram", Error: err.Error()}, &PublishError{Platform: "instagram", Err: err}
	}
	return Result{Platform: "instagram", Success: true, RemoteID: published.ID}, nil
}

func (p *InstagramPublisher) waitForContainer(ctx context.Context, creationID string) error {
	interval := p.PollInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	maxPolls := p.MaxPolls
	if maxPolls <= 0 {
		maxPolls = 15
	}

	for attempt := 1; attempt <= maxPolls; attempt++ {
		statusURL := fmt.Sprintf("%s/%s?fields=status_code&access_token=%s",
			p.BaseURL, creationID, url.QueryEscape(p.Config.SystemUserToken))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
		if err != nil {
			return err
		}
		res, err := p.httpClient().Do(req)
		if err != nil {
			return fmt.Errorf("container status: %w", err)
		}
		var out struct {
			StatusCode string `json:"status_code"`
		}
		decodeErr := json.NewDecoder(res.Body).Decode(&out)
		res.Body.Close()
		if decodeErr != nil {
			return fmt.Errorf("container status decode: %w", decodeErr)
		}

		switch out.StatusCode {
		case "FINISHED":
			return nil
		case "ERROR":
			return fmt.Errorf("media processing failed for container %s", creationID)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("timed out waiting for container %s to process", creationID)
}

func (p *InstagramPublisher) httpClient() *http.Client {
	if p.HTTP != nil {
		return p.HTTP
	}
	return &http.Client{Timeout: 60 * time.Second}
}

type graphErr struct {
	Message string `json:"message"`
}

func postGraphJSON(ctx context.Context, client *http.Client, endpoint string, body map[string]any, out any) error {
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("graph request: %w", err)
	}
	defer res.Body.Close()

	// Graph reports failures in the JSON body; decode regardless of status.
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("graph decode (status %d): %w", res.StatusCode, err)
	}
	return nil
}

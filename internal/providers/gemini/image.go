package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ImageClient generates images through the Imagen :predict REST endpoint.
// Results come back as base64-encoded bytes.
type ImageClient struct {
	APIKey  string
	Model   string
	BaseURL string
	HTTP    *http.Client
}

func (c *ImageClient) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 120 * time.Second}
}

func (c *ImageClient) Generate(ctx context.Context, prompt string, count int) ([]string, error) {
	if count <= 0 {
		count = 1
	}
	endpoint := fmt.Sprintf("%s/models/%s:predict?key=%s",
		c.BaseURL, url.PathEscape(c.Model), url.QueryEscape(c.APIKey))

	body := map[string]any{
		"instances": []map[string]any{{"prompt": prompt}},
		"parameters": map[string]any{
			"sampleCount": count,
			"aspectRatio": "16:9",
		},
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagen request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return nil, fmt.Errorf("imagen status %d: %s", res.StatusCode, msg)
	}

	var out struct {
		Predictions []struct {
			BytesBase64Encoded string `json:"bytesBase64Encoded"`
		} `json:"predictions"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("imagen decode: %w", err)
	}

	images := make([]string, 0, len(out.Predictions))
	for _, p := range out.Predictions {
		if p.BytesBase64Encoded != "" {
			images = append(images, p.BytesBase64Encoded)
		}
	}
	return images, nil
}

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// VideoClient starts Veo renders through the :predictLongRunning endpoint
// and polls the returned operation. One Poll call reports one observation;
// retry cadence belongs to the caller.
type VideoClient struct {
	APIKey  string
	Model   string
	BaseURL string
	HTTP    *http.Client
}

func (c *VideoClient) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func (c *VideoClient) Start(ctx context.Context, script string) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:predictLongRunning?key=%s",
		c.BaseURL, url.PathEscape(c.Model), url.QueryEscape(c.APIKey))

	body := map[string]any{
		"instances":  []map[string]any{{"prompt": script}},
		"parameters": map[string]any{"sampleCount": 1},
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("veo request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return "", fmt.Errorf("veo status %d: %s", res.StatusCode, msg)
	}

	var out struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("veo decode: %w", err)
	}
	if out.Name == "" {
		return "", errors.New("veo: no operation name in response")
	}
	return out.Name, nil
}

func (c *VideoClient) Poll(ctx context.Context, operation string) (RenderStatus, error) {
	endpoint := fmt.Sprintf("%s/%s?key=%s", c.BaseURL, operation, url.QueryEscape(c.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return RenderStatus{}, err
	}
	res, err := c.httpClient().Do(req)
	if err != nil {
		return RenderStatus{}, fmt.Errorf("veo poll: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return RenderStatus{}, fmt.Errorf("veo poll status %d: %s", res.StatusCode, msg)
	}

	var out struct {
		Done  bool `json:"done"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Response struct {
			Videos []struct {
				URI string `json:"uri"`
			} `json:"videos"`
		} `json:"response"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return RenderStatus{}, fmt.Errorf("veo poll decode: %w", err)
	}

	if !out.Done {
		return RenderStatus{State: RenderProcessing}, nil
	}
	if out.Error != nil {
		return RenderStatus{State: RenderFailed, Error: out.Error.Message}, nil
	}
	status := RenderStatus{State: RenderCompleted}
	if len(out.Response.Videos) > 0 {
		status.VideoURL = out.Response.Videos[0].URI
	}
	return status, nil
}

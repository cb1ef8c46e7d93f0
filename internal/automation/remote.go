package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemotePreviewer asks an external automation engine for a richer preview.
// The engine is expected to treat the call as a dry run.
type RemotePreviewer struct {
	url    string
	client *http.Client
}

func NewRemotePreviewer(url string, timeout time.Duration) *RemotePreviewer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RemotePreviewer{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type remoteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Previews []string `json:"previews"`
	} `json:"data"`
}

func (p *RemotePreviewer) Preview(ctx context.Context, a *Automation) ([]string, error) {
	body, err := json.Marshal(map[string]any{"automation": a, "dryRun": true})
	if err != nil {
		return nil, fmt.Errorf("failed to encode automation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build preview request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("preview request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read preview response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("preview endpoint returned %d", resp.StatusCode)
	}

	var out remoteResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode preview response: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("preview rejected: %s", out.Message)
	}
	return out.Data.Previews, nil
}

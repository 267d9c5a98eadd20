package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/feipenta/penta-web/internal/logger"
	"github.com/feipenta/penta-web/internal/model"
)

const DefaultEndpoint = "https://fei-penta.onrender.com/generate"

// Client posts prompts to a single image generation endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a client for endpoint. A zero timeout means the request
// may wait for as long as the endpoint takes.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint: endpoint,
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate sends exactly one request and returns the image reference.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(model.GenerationRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	logger.Debugf("posting prompt to %s, body: %s", c.endpoint, body)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused; the body has no schema here
		io.Copy(io.Discard, resp.Body)
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	// a nil result means the body was json null
	var result *model.GenerationResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", &DecodeError{Err: err}
	}
	if result == nil {
		return "", &DecodeError{Err: errNullBody}
	}
	return result.Image, nil
}

package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Ashim170/FingerDETECTAi/internal/httpc"
)

// RemoteDetector calls an HTTP inference service that counts fingers in an image.
//
// Request:  POST {"image": "<data-uri>"}
// Response: 200 {"count": N} with N >= 0
//
// There is deliberately no retry: a failed detection surfaces to the caller,
// which resets the scan to idle.
type RemoteDetector struct {
	config Config
	client *http.Client
}

// NewRemote creates a detector backed by the inference service at config.Endpoint.
func NewRemote(config Config) (*RemoteDetector, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("detector endpoint is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &RemoteDetector{
		config: config,
		client: httpc.Client,
	}, nil
}

type detectRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Count *int   `json:"count"`
	Error string `json:"error"`
}

// Count sends the image to the inference service and returns the finger count.
func (d *RemoteDetector) Count(ctx context.Context, imageDataURI string) (int, error) {
	if imageDataURI == "" {
		return 0, fmt.Errorf("detect: image payload is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	body, err := json.Marshal(detectRequest{Image: imageDataURI})
	if err != nil {
		return 0, fmt.Errorf("detect: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("detect: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("detect: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("detect: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("detect: service returned %d: %s", resp.StatusCode, trimBody(payload))
	}

	var parsed detectResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return 0, fmt.Errorf("detect: parse response: %w", err)
	}
	if parsed.Error != "" {
		return 0, fmt.Errorf("detect: service error: %s", parsed.Error)
	}
	if parsed.Count == nil {
		return 0, fmt.Errorf("detect: response has no count")
	}
	if *parsed.Count < 0 {
		return 0, fmt.Errorf("detect: service returned negative count %d", *parsed.Count)
	}

	return *parsed.Count, nil
}

// Close is a no-op; the shared HTTP client is process-lifetime.
func (d *RemoteDetector) Close() error {
	return nil
}

// trimBody keeps error messages readable when the service dumps HTML or a stack.
func trimBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

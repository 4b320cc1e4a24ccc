package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/flowpark/backend/internal/domain"
)

// HTTPVerifier validates bearer tokens against an external identity
// provider over HTTP. The provider owns all token semantics (signature,
// expiry, revocation); this client only relays its verdict.
type HTTPVerifier struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPVerifier creates a new verifier client
func NewHTTPVerifier(endpoint string) *HTTPVerifier {
	return &HTTPVerifier{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

// Verify posts the token to the identity provider. A non-200 verdict means
// the token is invalid or expired (nil identity, nil error); a transport
// failure is returned as an error.
func (v *HTTPVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	if v.endpoint == "" {
		return nil, fmt.Errorf("auth: identity provider endpoint not configured")
	}

	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("auth: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("auth: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var identity domain.Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("auth: failed to decode response: %w", err)
	}
	if identity.UID == "" {
		return nil, nil
	}

	return &identity, nil
}

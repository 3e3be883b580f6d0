package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HCPassProfile is what the municipal identity API returns for a valid
// credential pair. Raw keeps the untouched payload for the local mirror.
type HCPassProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	LogoURL string `json:"logoUrl"`
	Raw     json.RawMessage
}

type HCPassClient interface {
	Login(ctx context.Context, email, password string) (*HCPassProfile, error)
}

// ErrInvalidCredentials is returned when the identity API rejects the
// credential pair (as opposed to being unreachable).
var ErrInvalidCredentials = fmt.Errorf("hcpass: invalid credentials")

type hcpassClient struct {
	loginURL   string
	httpClient *http.Client
}

func NewHCPassClient(loginURL string) HCPassClient {
	return &hcpassClient{
		loginURL: loginURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *hcpassClient) Login(ctx context.Context, email, password string) (*HCPassProfile, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.loginURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach identity API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("identity API returned status %d: %s", resp.StatusCode, string(msg))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var profile HCPassProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	profile.Raw = raw

	return &profile, nil
}

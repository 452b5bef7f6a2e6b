// Package identity verifies credentials issued by external identity providers.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/notevault/notevault-go/internal/model"
)

// DefaultTokenInfoURL is Google's ID token introspection endpoint.
const DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

var (
	ErrRejected         = errors.New("identity provider rejected the token")
	ErrAudienceMismatch = errors.New("token was issued for a different client")
	ErrEmailUnverified  = errors.New("email address is not verified")
)

// GoogleVerifier validates Google ID tokens through the tokeninfo endpoint.
type GoogleVerifier struct {
	clientID string
	endpoint string
	client   *http.Client
}

// NewGoogleVerifier creates a verifier accepting tokens issued for clientID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID: clientID,
		endpoint: DefaultTokenInfoURL,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

type tokenInfo struct {
	Audience      string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
}

// VerifyIdentity exchanges credential for the verified email and name it carries.
func (v *GoogleVerifier) VerifyIdentity(ctx context.Context, credential string) (model.Identity, error) {
	u := v.endpoint + "?" + url.Values{"id_token": {credential}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.Identity{}, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return model.Identity{}, fmt.Errorf("calling tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Identity{}, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.Identity{}, fmt.Errorf("decoding tokeninfo: %w", err)
	}

	if info.Audience != v.clientID {
		return model.Identity{}, ErrAudienceMismatch
	}
	if info.EmailVerified != "true" {
		return model.Identity{}, ErrEmailUnverified
	}

	return model.Identity{Email: info.Email, Name: info.Name}, nil
}

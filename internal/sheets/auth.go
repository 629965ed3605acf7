package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"
)

// Scope grants read/write access to the user's spreadsheets.
const Scope = "https://www.googleapis.com/auth/spreadsheets"

// DefaultTokenURL is used when the key file carries no token_uri.
const DefaultTokenURL = "https://oauth2.googleapis.com/token"

// Credentials is the subset of a Google service account key file used to
// authenticate against the Sheets API.
type Credentials struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	TokenURI     string `json:"token_uri"`
}

// ParseCredentials decodes a service account key. The key may be given as a
// JSON object or as a JSON string holding the object, as happens when it is
// pasted into an environment variable or another JSON document.
func ParseCredentials(raw []byte) (*Credentials, error) {
	data := bytes.TrimSpace(raw)
	for i := 0; i < 3 && len(data) > 0 && data[0] == '"'; i++ {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decoding credentials string: %w", err)
		}
		data = bytes.TrimSpace([]byte(s))
	}
	if len(data) == 0 {
		return nil, errors.New("credentials are empty")
	}

	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding credentials: %w", err)
	}
	if c.ClientEmail == "" {
		return nil, errors.New("credentials: client_email is missing")
	}
	if c.PrivateKey == "" {
		return nil, errors.New("credentials: private_key is missing")
	}
	// Keys copied through shells often arrive with escaped newlines.
	if !strings.Contains(c.PrivateKey, "\n") {
		c.PrivateKey = strings.ReplaceAll(c.PrivateKey, `\n`, "\n")
	}
	if c.TokenURI == "" {
		c.TokenURI = DefaultTokenURL
	}
	return &c, nil
}

// jwtConfig returns the two-legged JWT flow config for the service account.
func (c *Credentials) jwtConfig() *jwt.Config {
	return &jwt.Config{
		Email:        c.ClientEmail,
		PrivateKey:   []byte(c.PrivateKey),
		PrivateKeyID: c.PrivateKeyID,
		Scopes:       []string{Scope},
		TokenURL:     c.TokenURI,
	}
}

// HTTPClient returns an HTTP client that signs every request with a token for
// the service account, refreshing it as needed.
func (c *Credentials) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, c.jwtConfig().TokenSource(ctx)))
}

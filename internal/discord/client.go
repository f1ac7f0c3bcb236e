// Package discord talks to the Discord OAuth2 and user API
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sowzaxx7/8m-community/internal/service"

	"golang.org/x/oauth2"
)

const (
	DefaultAuthURL  = "https://discord.com/oauth2/authorize"
	DefaultTokenURL = "https://discord.com/api/v10/oauth2/token"
	DefaultAPIURL   = "https://discord.com/api/v10"

	avatarURL = "https://cdn.discordapp.com/avatars/%s/%s.png?size=2048"
)

var ErrMalformedProfile = errors.New("malformed discord profile")

type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// Endpoints default to Discord's. Tests point them at a local server
	AuthURL  string
	TokenURL string
	APIURL   string
}

type Client struct {
	oauth  *oauth2.Config
	apiURL string
}

type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

func New(o Options) *Client {
	authURL := o.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}

	tokenURL := o.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	apiURL := o.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			RedirectURL:  o.RedirectURI,
			Scopes:       []string{"identify", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiURL: strings.TrimRight(apiURL, "/"),
	}
}

// Exchange implements service.IdentityProvider
func (c *Client) Exchange(ctx context.Context, code string) (*service.Profile, error) {
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code, %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/users/@me", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile, %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile, %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile request failed with status %d", resp.StatusCode)
	}

	var u user
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("%w, %w", ErrMalformedProfile, err)
	}

	if u.ID == "" {
		return nil, fmt.Errorf("%w, missing id", ErrMalformedProfile)
	}

	p := &service.Profile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}

	if u.Avatar != "" {
		p.Avatar = fmt.Sprintf(avatarURL, u.ID, u.Avatar)
	}

	return p, nil
}

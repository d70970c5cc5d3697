package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAuthURL  = "https://oauth.yandex.ru/authorize"
	defaultTokenURL = "https://oauth.yandex.ru/token"
	defaultInfoURL  = "https://login.yandex.ru/info"
)

// Client implements the Yandex OAuth authorization-code flow.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string

	authURL  string
	tokenURL string
	infoURL  string
	http     *http.Client
}

// Token is the relevant part of a successful token-exchange response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UserInfo describes the account a token belongs to.
type UserInfo struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Login        string `json:"login"`
	DefaultEmail string `json:"default_email"`
}

// NewClient registers the application credentials.
func NewClient(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		authURL:      defaultAuthURL,
		tokenURL:     defaultTokenURL,
		infoURL:      defaultInfoURL,
		http:         &http.Client{Timeout: 15 * time.Second},
	}
}

// AuthorizationURL builds the URL the user must visit to grant access.
// state is echoed back on redirect and guards against CSRF.
func (c *Client) AuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURI)
	if state != "" {
		params.Set("state", state)
	}
	return c.authURL + "?" + params.Encode()
}

// ExchangeCode swaps an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Token{}, fmt.Errorf("token exchange: %s: %s", resp.Status, body)
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return Token{}, fmt.Errorf("decode token: %w", err)
	}
	if token.AccessToken == "" {
		return Token{}, fmt.Errorf("token exchange: empty access_token in response")
	}
	return token, nil
}

// FetchUserInfo resolves the account behind an access token.
func (c *Client) FetchUserInfo(ctx context.Context, accessToken string) (UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.infoURL, nil)
	if err != nil {
		return UserInfo{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return UserInfo{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UserInfo{}, fmt.Errorf("user info: %s", resp.Status)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return UserInfo{}, fmt.Errorf("decode user info: %w", err)
	}
	return info, nil
}

package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// ClientCred caches a client-credentials token and refreshes it when it
// expires. Safe for concurrent use.
type ClientCred struct {
	mu    sync.Mutex
	conf  oauth2.TokenSource
	token *oauth2.Token
}

func NewClientCred(conf Conf) *ClientCred {
	cc := conf.toOauth2Config()
	return &ClientCred{
		conf: cc.TokenSource(context.Background()),
	}
}

// GetToken returns the cached access token, requesting a fresh one from
// the token endpoint when the cache is empty or expired.
func (c *ClientCred) GetToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != nil && c.token.Valid() {
		return c.token.AccessToken, nil
	}
	if err := c.refresh(); err != nil {
		return "", err
	}
	return c.token.AccessToken, nil
}

// ForceRefresh discards the cached token and requests a new one.
func (c *ClientCred) ForceRefresh() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = nil
	if err := c.refresh(); err != nil {
		return "", err
	}
	return c.token.AccessToken, nil
}

// SetAuthHeader sets the Authorization header on r, refreshing the token
// first if needed.
func (c *ClientCred) SetAuthHeader(r *http.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == nil || !c.token.Valid() {
		if err := c.refresh(); err != nil {
			return err
		}
	}
	c.token.SetAuthHeader(r)
	return nil
}

func (c *ClientCred) refresh() error {
	tok, err := c.conf.Token()
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}
	c.token = tok
	return nil
}

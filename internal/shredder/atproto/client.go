package atproto

import (
	"context"
	"net/url"
	"strings"

	"github.com/bluesky-social/indigo/atproto/auth/oauth"

	"atproto-handle/internal/shredder"
)

const (
	// ClientName is advertised in the client metadata document.
	ClientName = "atproto-handle shredder"
	// Scope is the only scope requested; the login proves DID control and
	// nothing more.
	Scope = "atproto"

	CallbackPath = "/shredder/callback"
	MetadataPath = "/client-metadata.json"

	localBaseURL = "http://127.0.0.1:3000"
)

// Config selects between a public client, identified by its metadata URL,
// and a loopback development client when PublicURL is empty.
type Config struct {
	PublicURL string
}

// BaseURL is the URL the service is reachable on.
func (c Config) BaseURL() string {
	if c.PublicURL == "" {
		return localBaseURL
	}
	return strings.TrimRight(c.PublicURL, "/")
}

// Client wraps an oauth.ClientApp as a shredder.OAuthClient.
type Client struct {
	app     *oauth.ClientApp
	baseURL string
}

// NewClient builds the OAuth client app over store.
func NewClient(cfg Config, store oauth.ClientAuthStore) *Client {
	base := cfg.BaseURL()
	callback := base + CallbackPath
	scopes := []string{Scope}

	var config oauth.ClientConfig
	if cfg.PublicURL == "" {
		config = oauth.NewLocalhostConfig(callback, scopes)
	} else {
		config = oauth.NewPublicConfig(base+MetadataPath, callback, scopes)
	}
	return &Client{
		app:     oauth.NewClientApp(&config, store),
		baseURL: base,
	}
}

func (c *Client) StartAuthFlow(ctx context.Context, identifier string) (string, error) {
	return c.app.StartAuthFlow(ctx, identifier)
}

func (c *Client) ProcessCallback(ctx context.Context, params url.Values) (shredder.Session, error) {
	sess, err := c.app.ProcessCallback(ctx, params)
	if err != nil {
		return shredder.Session{}, err
	}
	return shredder.Session{DID: sess.AccountDID.String(), SessionID: sess.SessionID}, nil
}

// ClientID is the OAuth client_id presented to authorization servers.
func (c *Client) ClientID() string {
	return c.app.Config.ClientID
}

// Metadata returns the client metadata document served at MetadataPath,
// ready for JSON encoding.
func (c *Client) Metadata() any {
	doc := c.app.Config.ClientMetadata()
	name := ClientName
	uri := c.baseURL
	doc.ClientName = &name
	doc.ClientURI = &uri
	return doc
}

var _ shredder.OAuthClient = (*Client)(nil)

package identity

import (
	"net/http"
	"time"

	atid "github.com/bluesky-social/indigo/atproto/identity"
)

// NewBaseDirectory returns an uncached network directory: PLC for did:plc,
// DNS TXT then HTTPS well-known for handles. Lookups are not cached since a
// claim must see the current handle binding.
func NewBaseDirectory(userAgent string, timeout time.Duration) *atid.BaseDirectory {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &atid.BaseDirectory{
		PLCURL:                atid.DefaultPLCURL,
		HTTPClient:            http.Client{Timeout: timeout},
		TryAuthoritativeDNS:   true,
		SkipDNSDomainSuffixes: []string{".bsky.social"},
		UserAgent:             userAgent,
	}
}

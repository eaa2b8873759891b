package audit

import "time"

// Action names a recorded domain action.
type Action string

const (
	ActionDomainClaimed    Action = "domain_claimed"
	ActionDomainReleased   Action = "domain_released"
	ActionDIDReleased      Action = "did_bindings_released"
	ActionRegistryReloaded Action = "registry_reloaded"
	ActionShredderLogin    Action = "shredder_login"
)

// Event is emitted from domain logic to capture key actions. It is
// transport-agnostic so sinks can fan out.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Domain    string    `json:"domain,omitempty"`
	DID       string    `json:"did,omitempty"`
	// Domains lists every binding touched by a bulk release.
	Domains   []string `json:"domains,omitempty"`
	Actor     string   `json:"actor,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
	ClientIP  string   `json:"client_ip,omitempty"`
	// Client is a short description of the caller's user agent.
	Client string `json:"client,omitempty"`
}

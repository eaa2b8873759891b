package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, backends and external
// collaborator adapters return these (optionally wrapped) so services can
// translate them into domain errors:
// - ErrNotFound: entry or record does not exist
// - ErrExpired: TTL entry or OAuth state outlived its window
// - ErrCorrupt: backing medium is readable but malformed
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: backing service temporarily unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrCorrupt      = errors.New("corrupt")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)

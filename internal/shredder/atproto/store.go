// Package atproto adapts the atproto OAuth client to the shredder flow. Auth
// request data lives in the state TTL store keyed by OAuth state; session
// data lives in the session TTL store keyed by "did|sessionID".
package atproto

import (
	"context"
	"fmt"

	"github.com/bluesky-social/indigo/atproto/auth/oauth"
	"github.com/bluesky-social/indigo/atproto/syntax"

	"atproto-handle/internal/ttlstore"
	"atproto-handle/pkg/platform/sentinel"
)

// AuthStore implements oauth.ClientAuthStore on two TTL stores.
type AuthStore struct {
	states   ttlstore.Store[oauth.AuthRequestData]
	sessions ttlstore.Store[oauth.ClientSessionData]
}

func NewAuthStore(states ttlstore.Store[oauth.AuthRequestData], sessions ttlstore.Store[oauth.ClientSessionData]) *AuthStore {
	return &AuthStore{states: states, sessions: sessions}
}

func sessionKey(did syntax.DID, sessionID string) string {
	return did.String() + "|" + sessionID
}

func (s *AuthStore) GetSession(ctx context.Context, did syntax.DID, sessionID string) (*oauth.ClientSessionData, error) {
	sess, ok, err := s.sessions.Get(ctx, sessionKey(did, sessionID))
	if err != nil {
		return nil, fmt.Errorf("load oauth session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("oauth session %s: %w", did, sentinel.ErrNotFound)
	}
	return &sess, nil
}

func (s *AuthStore) SaveSession(ctx context.Context, sess oauth.ClientSessionData) error {
	if err := s.sessions.Set(ctx, sessionKey(sess.AccountDID, sess.SessionID), sess); err != nil {
		return fmt.Errorf("save oauth session: %w", err)
	}
	return nil
}

func (s *AuthStore) DeleteSession(ctx context.Context, did syntax.DID, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionKey(did, sessionID)); err != nil {
		return fmt.Errorf("delete oauth session: %w", err)
	}
	return nil
}

// GetAuthRequestInfo treats an expired state exactly like an unknown one.
func (s *AuthStore) GetAuthRequestInfo(ctx context.Context, state string) (*oauth.AuthRequestData, error) {
	info, ok, err := s.states.Get(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("load oauth state: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("oauth state: %w", sentinel.ErrNotFound)
	}
	return &info, nil
}

func (s *AuthStore) SaveAuthRequestInfo(ctx context.Context, info oauth.AuthRequestData) error {
	if err := s.states.Set(ctx, info.State, info); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

func (s *AuthStore) DeleteAuthRequestInfo(ctx context.Context, state string) error {
	if err := s.states.Delete(ctx, state); err != nil {
		return fmt.Errorf("delete oauth state: %w", err)
	}
	return nil
}

var _ oauth.ClientAuthStore = (*AuthStore)(nil)

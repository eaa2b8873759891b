package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	atid "github.com/bluesky-social/indigo/atproto/identity"
	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"atproto-handle/internal/identity/mocks"
	dErrors "atproto-handle/pkg/domain-errors"
	"atproto-handle/pkg/platform/circuit"
	"atproto-handle/pkg/platform/sentinel"
)

type ResolverSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	handles  *mocks.MockHandleResolver
	dids     *mocks.MockDIDResolver
	resolver *Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.handles = mocks.NewMockHandleResolver(s.ctrl)
	s.dids = mocks.NewMockDIDResolver(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.resolver = New(s.handles, s.dids, WithLogger(logger))
}

func (s *ResolverSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ResolverSuite) TestMissingInput() {
	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := s.resolver.Resolve(context.Background(), input)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeMissingInput), "input %q", input)
	}
}

func (s *ResolverSuite) TestResolveDID() {
	s.Run("returns DID whose document resolves", func() {
		did := syntax.DID("did:plc:ewvi7nxzyoun6zhxrhs64oiz")
		s.dids.EXPECT().ResolveDID(gomock.Any(), did).Return(&atid.DIDDocument{DID: did}, nil)

		got, err := s.resolver.Resolve(context.Background(), "  did:plc:ewvi7nxzyoun6zhxrhs64oiz ")
		s.Require().NoError(err)
		s.Equal("did:plc:ewvi7nxzyoun6zhxrhs64oiz", got)
	})

	s.Run("lookup failure is a resolution error", func() {
		s.dids.EXPECT().ResolveDID(gomock.Any(), gomock.Any()).Return(nil, errors.New("not found"))

		_, err := s.resolver.Resolve(context.Background(), "did:plc:ewvi7nxzyoun6zhxrhs64oiz")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeResolution))
		s.Contains(err.Error(), "DID did not resolve")
	})

	s.Run("missing document is a resolution error", func() {
		s.dids.EXPECT().ResolveDID(gomock.Any(), gomock.Any()).Return(nil, nil)

		_, err := s.resolver.Resolve(context.Background(), "did:plc:ewvi7nxzyoun6zhxrhs64oiz")
		s.True(dErrors.HasCode(err, dErrors.CodeResolution))
	})

	s.Run("malformed DID never reaches the network", func() {
		_, err := s.resolver.Resolve(context.Background(), "did:")
		s.True(dErrors.HasCode(err, dErrors.CodeResolution))
	})
}

func (s *ResolverSuite) TestResolveHandle() {
	s.Run("normalizes handle before lookup", func() {
		s.handles.EXPECT().
			ResolveHandle(gomock.Any(), syntax.Handle("alice.example.com")).
			Return(syntax.DID("did:plc:alice"), nil)

		got, err := s.resolver.Resolve(context.Background(), "Alice.Example.COM")
		s.Require().NoError(err)
		s.Equal("did:plc:alice", got)
	})

	s.Run("lookup failure is a resolution error", func() {
		s.handles.EXPECT().ResolveHandle(gomock.Any(), gomock.Any()).Return(syntax.DID(""), errors.New("nxdomain"))

		_, err := s.resolver.Resolve(context.Background(), "nobody.example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeResolution))
		s.Contains(err.Error(), "handle did not resolve")
	})

	s.Run("empty DID is a resolution error", func() {
		s.handles.EXPECT().ResolveHandle(gomock.Any(), gomock.Any()).Return(syntax.DID(""), nil)

		_, err := s.resolver.Resolve(context.Background(), "nobody.example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeResolution))
	})

	s.Run("syntactically invalid handle is a resolution error", func() {
		_, err := s.resolver.Resolve(context.Background(), "not a handle")
		s.True(dErrors.HasCode(err, dErrors.CodeResolution))
	})
}

func (s *ResolverSuite) TestTimeoutBoundsLookup() {
	resolver := New(s.handles, s.dids, WithTimeout(20*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.handles.EXPECT().ResolveHandle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ syntax.Handle) (syntax.DID, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	_, err := resolver.Resolve(context.Background(), "slow.example.com")
	s.True(dErrors.HasCode(err, dErrors.CodeResolution))
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *ResolverSuite) TestConcurrentLookupsCollapse() {
	release := make(chan struct{})
	s.handles.EXPECT().ResolveHandle(gomock.Any(), syntax.Handle("bob.example.com")).
		DoAndReturn(func(context.Context, syntax.Handle) (syntax.DID, error) {
			<-release
			return syntax.DID("did:plc:bob"), nil
		}).
		MinTimes(1).MaxTimes(2)

	var wg sync.WaitGroup
	results := make([]string, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = s.resolver.Resolve(context.Background(), "bob.example.com")
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, did := range results {
		s.Equal("did:plc:bob", did)
	}
}

func (s *ResolverSuite) TestCancelledCallerDoesNotFailSharedLookup() {
	resolver := New(s.handles, s.dids, WithTimeout(time.Second),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	started := make(chan struct{})
	release := make(chan struct{})
	s.handles.EXPECT().ResolveHandle(gomock.Any(), syntax.Handle("carol.example.com")).
		DoAndReturn(func(ctx context.Context, _ syntax.Handle) (syntax.DID, error) {
			close(started)
			select {
			case <-release:
				return syntax.DID("did:plc:carol"), nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := resolver.Resolve(firstCtx, "carol.example.com")
		firstErr <- err
	}()
	<-started

	secondDID := make(chan string, 1)
	go func() {
		did, _ := resolver.Resolve(context.Background(), "carol.example.com")
		secondDID <- did
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	err := <-firstErr
	s.True(dErrors.HasCode(err, dErrors.CodeResolution))
	s.ErrorIs(err, context.Canceled)

	close(release)
	s.Equal("did:plc:carol", <-secondDID)
}

func (s *ResolverSuite) TestNewBaseDirectory() {
	s.Run("applies timeout and user agent", func() {
		dir := NewBaseDirectory("atproto-handle/test", 3*time.Second)
		s.Equal(3*time.Second, dir.HTTPClient.Timeout)
		s.Equal("atproto-handle/test", dir.UserAgent)
		s.NotEmpty(dir.PLCURL)
	})

	s.Run("zero timeout falls back to default", func() {
		s.Equal(DefaultTimeout, NewBaseDirectory("ua", 0).HTTPClient.Timeout)
	})
}

func (s *ResolverSuite) TestBreaker() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.Run("opens on directory faults and fails fast", func() {
		breaker := circuit.New("identity", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
		r := New(s.handles, s.dids, WithLogger(logger), WithBreaker(breaker))
		s.handles.EXPECT().ResolveHandle(gomock.Any(), gomock.Any()).
			Return(syntax.DID(""), errors.New("dial tcp: connection refused")).Times(2)

		for range 2 {
			_, err := r.Resolve(context.Background(), "alice.example.com")
			s.True(dErrors.HasCode(err, dErrors.CodeResolution))
		}
		s.True(breaker.IsOpen())

		_, err := r.Resolve(context.Background(), "alice.example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeResolution))
		s.ErrorIs(err, sentinel.ErrUnavailable)
	})

	s.Run("unknown handles do not trip the breaker", func() {
		breaker := circuit.New("identity", circuit.WithFailureThreshold(1))
		r := New(s.handles, s.dids, WithLogger(logger), WithBreaker(breaker))
		s.handles.EXPECT().ResolveHandle(gomock.Any(), gomock.Any()).
			Return(syntax.DID(""), atid.ErrHandleNotFound)

		_, err := r.Resolve(context.Background(), "nobody.example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeResolution))
		s.False(breaker.IsOpen())
	})
}

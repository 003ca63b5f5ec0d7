package session

import (
	"io"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ocx/limbo-gate/internal/assets"
	"github.com/ocx/limbo-gate/internal/observability"
	"github.com/ocx/limbo-gate/internal/protocol"
)

func testSessionConfig() Config {
	return Config{
		MaxMovementTicks:      8,
		MaxIgnoredTicks:       2,
		MaxLoginPackets:       256,
		ReadTimeout:           5 * time.Second,
		EnableCompression:     false,
		CompressionThreshold:  256,
		Gamemode:              2,
		MaxBrandLength:        64,
		RequireCollisionCheck: true,
		ValidNameRegex:        regexp.MustCompile(`^[A-Za-z0-9_]{1,16}$`),
		ValidBrandRegex:       regexp.MustCompile(`^[\x20-\x7E]{1,64}$`),
		ValidLocaleRegex:      regexp.MustCompile(`^[a-zA-Z]{2,3}_[a-zA-Z]{2,3}$`),
	}
}

func newTestSession(t *testing.T) (*Session, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { server.Close(); client.Close() })
	// net.Pipe is unbuffered and synchronous: drain the client side in the
	// background so the session's sends during Start don't block forever.
	go io.Copy(io.Discard, client)

	a := assets.Prepare(assets.Options{MaxMovementTicks: 8, Gamemode: 2, MaxPlayers: 100})
	s := New(server, net.ParseIP("127.0.0.1"), protocol.V1_16, testSessionConfig(), a, protocol.NewRegistry(), observability.NopSink{}, Callbacks{})
	require.NoError(t, s.Start("Steve", uuid.New()))
	return s, client
}

// TestKeepAliveEchoWhileStillInAwaitClientSettingsAdvancesToFalling guards
// the fix for the gap where the KeepAlive echo, arriving before any other
// code path moved the state machine into AwaitKeepAlive, was silently
// dropped by handleKeepAlive's state guard and the session never reached
// Falling.
func TestKeepAliveEchoWhileStillInAwaitClientSettingsAdvancesToFalling(t *testing.T) {
	s, client := newTestSession(t)
	defer client.Close()

	require.Equal(t, StateAwaitClientSettings, s.State())

	err := s.handleKeepAlive(mustEncodeKeepAlive(s.keepAliveToken))
	require.NoError(t, err)
	require.Equal(t, StateFalling, s.State())
	require.NotNil(t, s.gravity)
}

func TestKeepAliveMismatchedTokenFromAwaitClientSettingsFails(t *testing.T) {
	s, client := newTestSession(t)
	defer client.Close()

	err := s.handleKeepAlive(mustEncodeKeepAlive(s.keepAliveToken + 1))
	require.Error(t, err)
}

func TestKeepAliveDuringFallingIsHarmlessDuplicate(t *testing.T) {
	s, client := newTestSession(t)
	defer client.Close()

	require.NoError(t, s.handleKeepAlive(mustEncodeKeepAlive(s.keepAliveToken)))
	require.Equal(t, StateFalling, s.State())

	err := s.handleKeepAlive(mustEncodeKeepAlive(s.keepAliveToken))
	require.NoError(t, err)
	require.Equal(t, StateFalling, s.State())
}

func mustEncodeKeepAlive(id int64) []byte {
	return protocol.EncodeKeepAlive(id)
}

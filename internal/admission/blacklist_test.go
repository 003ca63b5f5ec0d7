package admission

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBlacklistContainsAfterAdd(t *testing.T) {
	b := NewBlacklist(time.Minute)
	ip := net.ParseIP("192.168.1.1")
	require.False(t, b.Contains(ip))
	b.Add(ip)
	require.True(t, b.Contains(ip))
}

func TestBlacklistDistinctIPsDoNotCollideTrivially(t *testing.T) {
	b := NewBlacklist(time.Minute)
	a := net.ParseIP("10.1.1.1")
	c := net.ParseIP("10.2.2.2")
	b.Add(a)
	require.True(t, b.Contains(a))
	_ = b.Contains(c) // false positives are allowed by design, just check it doesn't panic
}

func TestBlacklistEstimatedSizeGrows(t *testing.T) {
	b := NewBlacklist(time.Minute)
	before := b.EstimatedSize()
	b.Add(net.ParseIP("10.1.1.1"))
	b.Add(net.ParseIP("10.1.1.2"))
	require.Greater(t, b.EstimatedSize(), before)
}

func TestBlacklistRotation(t *testing.T) {
	b := NewBlacklist(20 * time.Millisecond)
	ip := net.ParseIP("10.1.1.5")
	b.Add(ip)
	require.True(t, b.Contains(ip))

	time.Sleep(15 * time.Millisecond)
	b.Add(net.ParseIP("10.1.1.6")) // triggers rotation check
	require.True(t, b.Contains(ip), "entry should still be visible within TTL via the previous generation")
}

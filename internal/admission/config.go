// Package admission implements the gate that decides which inbound
// connections are let straight through, queued, rejected, or handed to a
// fallback verification session (spec.md §4.4), plus the attack-mode
// detector and the bounded Verified/Blacklist stores it consults.
package admission

import (
	"regexp"
	"time"
)

// Config is the full set of operator-facing knobs from spec.md §6. It is
// an immutable snapshot; a config reload constructs a new Config and
// swaps the Gate's reference rather than mutating fields in place.
type Config struct {
	MaxMovementTicks      int
	MaxIgnoredTicks       int
	MaxVerifyingPlayers   int
	MaxQueuePolls         int
	MaxLoginPackets       int
	ReadTimeout           time.Duration
	ReconnectDelay        time.Duration
	MaxBrandLength        int
	ValidNameRegex        *regexp.Regexp
	ValidBrandRegex       *regexp.Regexp
	ValidLocaleRegex      *regexp.Regexp
	EnableCompression     bool
	CompressionThreshold  int
	Gamemode              int8
	MinPlayersForAttack   int
	MaxOnlinePerIP        int
	RequireCollisionCheck bool

	LockdownEnabled          bool
	LockdownBypassPermission string

	VerifiedStoreMaxSize int
	VerifiedTTL          time.Duration

	BlacklistTTL               time.Duration
	BlacklistThreshold         int
	BlacklistThresholdAttack   int
	FailureWindow              time.Duration

	LogDuringAttack bool
}

// DefaultConfig matches the end-to-end scenario literals in spec.md §8.
func DefaultConfig() Config {
	return Config{
		MaxMovementTicks:         8,
		MaxIgnoredTicks:          2,
		MaxVerifyingPlayers:      200,
		MaxQueuePolls:            10,
		MaxLoginPackets:          256,
		ReadTimeout:              10 * time.Second,
		ReconnectDelay:           8 * time.Second,
		MaxBrandLength:           64,
		ValidNameRegex:           regexp.MustCompile(`^[A-Za-z0-9_]{1,16}$`),
		ValidBrandRegex:          regexp.MustCompile(`^[\x20-\x7E]{1,64}$`),
		ValidLocaleRegex:         regexp.MustCompile(`^[a-zA-Z]{2,3}_[a-zA-Z]{2,3}$`),
		EnableCompression:        true,
		CompressionThreshold:     256,
		Gamemode:                 2,
		MinPlayersForAttack:      40,
		MaxOnlinePerIP:           3,
		RequireCollisionCheck:    true,
		VerifiedStoreMaxSize:     50000,
		VerifiedTTL:              24 * time.Hour,
		BlacklistTTL:             5 * time.Minute,
		BlacklistThreshold:       3,
		BlacklistThresholdAttack: 1,
		FailureWindow:            60 * time.Second,
	}
}

// Package config loads the gateway's configuration snapshot from YAML
// with environment-variable overrides, in the teacher's own style
// (gopkg.in/yaml.v2 + github.com/joho/godotenv), and builds the
// per-package option structs (admission.Config, session.Config,
// assets.Options) from it.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/ocx/limbo-gate/internal/admission"
	"github.com/ocx/limbo-gate/internal/assets"
	"github.com/ocx/limbo-gate/internal/session"
)

// raw mirrors the on-disk YAML shape; durations (integer unit fields) and
// regexes (strings) are converted in toSnapshot.
type raw struct {
	Listen string `yaml:"listen"`

	MaxMovementTicks      int    `yaml:"max_movement_ticks"`
	MaxIgnoredTicks       int    `yaml:"max_ignored_ticks"`
	MaxVerifyingPlayers   int    `yaml:"max_verifying_players"`
	MaxQueuePolls         int    `yaml:"max_queue_polls"`
	MaxLoginPackets       int    `yaml:"max_login_packets"`
	ReadTimeoutMS         int    `yaml:"read_timeout_ms"`
	ReconnectDelayMS      int    `yaml:"reconnect_delay_ms"`
	MaxBrandLength        int    `yaml:"max_brand_length"`
	ValidNameRegex        string `yaml:"valid_name_regex"`
	ValidBrandRegex       string `yaml:"valid_brand_regex"`
	ValidLocaleRegex      string `yaml:"valid_locale_regex"`
	EnableCompression     bool   `yaml:"enable_compression"`
	CompressionThreshold  int    `yaml:"compression_threshold"`
	GamemodeID            int8   `yaml:"gamemode_id"`
	MinPlayersForAttack   int    `yaml:"min_players_for_attack"`
	MaxOnlinePerIP        int    `yaml:"max_online_per_ip"`
	RequireCollisionCheck bool   `yaml:"require_collision_check"`

	LockdownEnabled          bool   `yaml:"lockdown_enabled"`
	LockdownBypassPermission string `yaml:"lockdown_bypass_permission"`

	VerifiedStoreMaxSize int `yaml:"verified_store_max_size"`
	VerifiedTTLHours     int `yaml:"verified_ttl_hours"`

	BlacklistTTLMinutes      int `yaml:"blacklist_ttl_minutes"`
	BlacklistThreshold       int `yaml:"blacklist_threshold"`
	BlacklistThresholdAttack int `yaml:"blacklist_threshold_attack"`
	FailureWindowSeconds     int `yaml:"failure_window_seconds"`

	LogDuringAttack bool `yaml:"log_during_attack"`

	AdminListen string `yaml:"admin_listen"`

	Persistence struct {
		Backend string `yaml:"backend"` // "memory" | "postgres" | "redis"
		DSN     string `yaml:"dsn"`
	} `yaml:"persistence"`
}

// Snapshot is the immutable, fully-resolved configuration the rest of the
// gateway builds its components from.
type Snapshot struct {
	Listen      string
	AdminListen string

	Admission admission.Config
	Session   session.Config
	Assets    assets.Options

	PersistenceBackend string
	PersistenceDSN     string
}

func defaultRaw() raw {
	d := admission.DefaultConfig()
	r := raw{
		Listen:                   ":25565",
		AdminListen:              ":8082",
		MaxMovementTicks:         d.MaxMovementTicks,
		MaxIgnoredTicks:          d.MaxIgnoredTicks,
		MaxVerifyingPlayers:      d.MaxVerifyingPlayers,
		MaxQueuePolls:            d.MaxQueuePolls,
		MaxLoginPackets:          d.MaxLoginPackets,
		ReadTimeoutMS:            int(d.ReadTimeout / time.Millisecond),
		ReconnectDelayMS:         int(d.ReconnectDelay / time.Millisecond),
		MaxBrandLength:           d.MaxBrandLength,
		ValidNameRegex:           d.ValidNameRegex.String(),
		ValidBrandRegex:          d.ValidBrandRegex.String(),
		ValidLocaleRegex:         d.ValidLocaleRegex.String(),
		EnableCompression:        d.EnableCompression,
		CompressionThreshold:     d.CompressionThreshold,
		GamemodeID:               d.Gamemode,
		MinPlayersForAttack:      d.MinPlayersForAttack,
		MaxOnlinePerIP:           d.MaxOnlinePerIP,
		RequireCollisionCheck:    d.RequireCollisionCheck,
		LockdownEnabled:          d.LockdownEnabled,
		LockdownBypassPermission: d.LockdownBypassPermission,
		VerifiedStoreMaxSize:     d.VerifiedStoreMaxSize,
		VerifiedTTLHours:         int(d.VerifiedTTL / time.Hour),
		BlacklistTTLMinutes:      int(d.BlacklistTTL / time.Minute),
		BlacklistThreshold:       d.BlacklistThreshold,
		BlacklistThresholdAttack: d.BlacklistThresholdAttack,
		FailureWindowSeconds:     int(d.FailureWindow / time.Second),
		LogDuringAttack:          d.LogDuringAttack,
	}
	r.Persistence.Backend = "memory"
	return r
}

// Load reads path (YAML), applies a .env file if present, then applies
// LIMBO_GATE_-prefixed environment overrides, and returns a resolved
// Snapshot. A missing config file is not an error: defaults apply.
func Load(path string) (*Snapshot, error) {
	_ = godotenv.Load() // optional .env; absence is not an error

	r := defaultRaw()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: reading %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	applyEnvOverrides(&r)
	return r.toSnapshot()
}

func (r raw) toSnapshot() (*Snapshot, error) {
	nameRe, err := regexp.Compile(r.ValidNameRegex)
	if err != nil {
		return nil, fmt.Errorf("config: valid_name_regex: %w", err)
	}
	brandRe, err := regexp.Compile(r.ValidBrandRegex)
	if err != nil {
		return nil, fmt.Errorf("config: valid_brand_regex: %w", err)
	}
	localeRe, err := regexp.Compile(r.ValidLocaleRegex)
	if err != nil {
		return nil, fmt.Errorf("config: valid_locale_regex: %w", err)
	}

	admCfg := admission.Config{
		MaxMovementTicks:         r.MaxMovementTicks,
		MaxIgnoredTicks:          r.MaxIgnoredTicks,
		MaxVerifyingPlayers:      r.MaxVerifyingPlayers,
		MaxQueuePolls:            r.MaxQueuePolls,
		MaxLoginPackets:          r.MaxLoginPackets,
		ReadTimeout:              time.Duration(r.ReadTimeoutMS) * time.Millisecond,
		ReconnectDelay:           time.Duration(r.ReconnectDelayMS) * time.Millisecond,
		MaxBrandLength:           r.MaxBrandLength,
		ValidNameRegex:           nameRe,
		ValidBrandRegex:          brandRe,
		ValidLocaleRegex:         localeRe,
		EnableCompression:        r.EnableCompression,
		CompressionThreshold:     r.CompressionThreshold,
		Gamemode:                 r.GamemodeID,
		MinPlayersForAttack:      r.MinPlayersForAttack,
		MaxOnlinePerIP:           r.MaxOnlinePerIP,
		RequireCollisionCheck:    r.RequireCollisionCheck,
		LockdownEnabled:          r.LockdownEnabled,
		LockdownBypassPermission: r.LockdownBypassPermission,
		VerifiedStoreMaxSize:     r.VerifiedStoreMaxSize,
		VerifiedTTL:              time.Duration(r.VerifiedTTLHours) * time.Hour,
		BlacklistTTL:             time.Duration(r.BlacklistTTLMinutes) * time.Minute,
		BlacklistThreshold:       r.BlacklistThreshold,
		BlacklistThresholdAttack: r.BlacklistThresholdAttack,
		FailureWindow:            time.Duration(r.FailureWindowSeconds) * time.Second,
		LogDuringAttack:          r.LogDuringAttack,
	}

	sessCfg := session.Config{
		MaxMovementTicks:      admCfg.MaxMovementTicks,
		MaxIgnoredTicks:       admCfg.MaxIgnoredTicks,
		MaxLoginPackets:       admCfg.MaxLoginPackets,
		ReadTimeout:           admCfg.ReadTimeout,
		EnableCompression:     admCfg.EnableCompression,
		CompressionThreshold:  admCfg.CompressionThreshold,
		Gamemode:              admCfg.Gamemode,
		MaxBrandLength:        admCfg.MaxBrandLength,
		RequireCollisionCheck: admCfg.RequireCollisionCheck,
		ValidNameRegex:        nameRe,
		ValidBrandRegex:       brandRe,
		ValidLocaleRegex:      localeRe,
	}

	assetOpts := assets.Options{
		MaxMovementTicks: admCfg.MaxMovementTicks,
		Gamemode:         admCfg.Gamemode,
		MaxPlayers:       100,
	}

	return &Snapshot{
		Listen:             r.Listen,
		AdminListen:        r.AdminListen,
		Admission:          admCfg,
		Session:            sessCfg,
		Assets:             assetOpts,
		PersistenceBackend: r.Persistence.Backend,
		PersistenceDSN:     r.Persistence.DSN,
	}, nil
}

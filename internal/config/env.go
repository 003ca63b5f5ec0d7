package config

import (
	"os"
	"strconv"
)

// applyEnvOverrides lets an operator override individual YAML fields
// without editing the file, matching the teacher's env-override layering
// over YAML defaults. Every variable is prefixed LIMBO_GATE_.
func applyEnvOverrides(r *raw) {
	envString("LIMBO_GATE_LISTEN", &r.Listen)
	envString("LIMBO_GATE_ADMIN_LISTEN", &r.AdminListen)
	envInt("LIMBO_GATE_MAX_MOVEMENT_TICKS", &r.MaxMovementTicks)
	envInt("LIMBO_GATE_MAX_IGNORED_TICKS", &r.MaxIgnoredTicks)
	envInt("LIMBO_GATE_MAX_VERIFYING_PLAYERS", &r.MaxVerifyingPlayers)
	envInt("LIMBO_GATE_MAX_QUEUE_POLLS", &r.MaxQueuePolls)
	envInt("LIMBO_GATE_MAX_LOGIN_PACKETS", &r.MaxLoginPackets)
	envInt("LIMBO_GATE_READ_TIMEOUT_MS", &r.ReadTimeoutMS)
	envInt("LIMBO_GATE_RECONNECT_DELAY_MS", &r.ReconnectDelayMS)
	envBool("LIMBO_GATE_ENABLE_COMPRESSION", &r.EnableCompression)
	envInt("LIMBO_GATE_MIN_PLAYERS_FOR_ATTACK", &r.MinPlayersForAttack)
	envInt("LIMBO_GATE_MAX_ONLINE_PER_IP", &r.MaxOnlinePerIP)
	envBool("LIMBO_GATE_LOCKDOWN_ENABLED", &r.LockdownEnabled)
	envString("LIMBO_GATE_PERSISTENCE_BACKEND", &r.Persistence.Backend)
	envString("LIMBO_GATE_PERSISTENCE_DSN", &r.Persistence.DSN)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

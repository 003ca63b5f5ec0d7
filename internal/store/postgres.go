// Package store provides Postgres- and Redis-backed implementations of
// admission.Persister, the out-of-band verified-IP persistence
// collaborator (spec.md §6). Neither is required: the gateway defaults to
// the in-memory persister when no backend is configured.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/ocx/limbo-gate/internal/admission"
)

// Postgres persists verified (IP, UUID) pairs to a single table, created
// on first use if absent.
type Postgres struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: opening postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("store: pinging postgres: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS limbo_gate_verified (
			ip TEXT NOT NULL,
			player_uuid TEXT NOT NULL,
			username TEXT NOT NULL,
			verified_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (ip, player_uuid)
		)`); err != nil {
		return nil, fmt.Errorf("store: creating table: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Load() ([]admission.VerifiedEntry, error) {
	rows, err := p.db.Query(`SELECT ip, player_uuid, username, verified_at FROM limbo_gate_verified`)
	if err != nil {
		return nil, fmt.Errorf("store: loading verified set: %w", err)
	}
	defer rows.Close()

	var out []admission.VerifiedEntry
	for rows.Next() {
		var e admission.VerifiedEntry
		var idStr string
		var at time.Time
		if err := rows.Scan(&e.IP, &idStr, &e.Username, &at); err != nil {
			return nil, fmt.Errorf("store: scanning verified row: %w", err)
		}
		id, err := parseUUID(idStr)
		if err != nil {
			continue
		}
		e.UUID = id
		e.At = at
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *Postgres) Put(e admission.VerifiedEntry) error {
	_, err := p.db.Exec(`
		INSERT INTO limbo_gate_verified (ip, player_uuid, username, verified_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ip, player_uuid) DO UPDATE SET username = $3, verified_at = $4`,
		e.IP, e.UUID.String(), e.Username, e.At)
	if err != nil {
		return fmt.Errorf("store: upserting verified entry: %w", err)
	}
	return nil
}

func (p *Postgres) Remove(ip string) error {
	_, err := p.db.Exec(`DELETE FROM limbo_gate_verified WHERE ip = $1`, ip)
	if err != nil {
		return fmt.Errorf("store: removing %s: %w", ip, err)
	}
	return nil
}

func (p *Postgres) Close() error { return p.db.Close() }

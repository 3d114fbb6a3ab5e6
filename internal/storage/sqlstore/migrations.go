package sqlstore

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// schema sets up the database. It runs on startup to ensure tables exist and
// is valid for both SQLite and PostgreSQL.
// Money columns hold decimal strings; time columns hold Unix nanoseconds.
// Tables are created parents first because of the foreign keys.
const schema = `
CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    balance TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS plans (
    id TEXT PRIMARY KEY,
    contribution TEXT NOT NULL,
    term_months INTEGER NOT NULL,
    created_at BIGINT NOT NULL,
    UNIQUE (contribution, term_months)
);

CREATE TABLE IF NOT EXISTS savings_groups (
    id TEXT PRIMARY KEY,
    plan_id TEXT NOT NULL REFERENCES plans(id),
    status TEXT NOT NULL,
    blocked_from TEXT NOT NULL DEFAULT '',
    capacity INTEGER NOT NULL,
    monthly_contribution TEXT NOT NULL,
    total_pool TEXT NOT NULL,
    start_at BIGINT NOT NULL,
    end_at BIGINT NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES savings_groups(id),
    member_id TEXT NOT NULL REFERENCES members(id),
    turn_slot INTEGER NOT NULL,
    role TEXT NOT NULL,
    payment_status TEXT NOT NULL,
    receive_status TEXT NOT NULL,
    joined_at BIGINT NOT NULL,
    UNIQUE (group_id, turn_slot),
    UNIQUE (group_id, member_id)
);

CREATE TABLE IF NOT EXISTS rounds (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES savings_groups(id),
    round_number INTEGER NOT NULL,
    winner_id TEXT NOT NULL REFERENCES participants(id),
    amount TEXT NOT NULL,
    start_at BIGINT NOT NULL,
    end_at BIGINT NOT NULL,
    status TEXT NOT NULL,
    blocked_from TEXT NOT NULL DEFAULT '',
    settled_at BIGINT,
    UNIQUE (group_id, round_number)
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    round_id TEXT NOT NULL REFERENCES rounds(id),
    group_id TEXT NOT NULL REFERENCES savings_groups(id),
    participant_id TEXT NOT NULL REFERENCES participants(id),
    member_id TEXT NOT NULL REFERENCES members(id),
    amount TEXT NOT NULL,
    due_at BIGINT NOT NULL,
    status TEXT NOT NULL,
    paid_at BIGINT,
    UNIQUE (round_id, participant_id)
);

CREATE INDEX IF NOT EXISTS idx_groups_status ON savings_groups(status);
CREATE INDEX IF NOT EXISTS idx_groups_plan ON savings_groups(monthly_contribution, capacity);
CREATE INDEX IF NOT EXISTS idx_participants_member_id ON participants(member_id);
CREATE INDEX IF NOT EXISTS idx_payments_due_at ON payments(due_at);
CREATE INDEX IF NOT EXISTS idx_payments_member_id ON payments(member_id);
`

// runMigrations executes the schema setup one statement at a time.
func runMigrations(db *sqlx.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

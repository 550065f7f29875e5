package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database.
// These run on startup to ensure tables exist. Natural keys carry UNIQUE
// constraints; charges additionally enforce the one-charge-per
// (user, type, cycle) invariant.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    number TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS charge_categories (
    id TEXT PRIMARY KEY,
    category TEXT NOT NULL UNIQUE,
    text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS charge_types (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL UNIQUE,
    text TEXT NOT NULL,
    category_id TEXT NOT NULL,
    FOREIGN KEY (category_id) REFERENCES charge_categories(id)
);

CREATE TABLE IF NOT EXISTS billing_cycles (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    end_date TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS charges (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    charge_type_id TEXT NOT NULL,
    billing_cycle_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    UNIQUE (user_id, charge_type_id, billing_cycle_id),
    FOREIGN KEY (user_id) REFERENCES users(id),
    FOREIGN KEY (charge_type_id) REFERENCES charge_types(id),
    FOREIGN KEY (billing_cycle_id) REFERENCES billing_cycles(id)
);

CREATE INDEX IF NOT EXISTS idx_charges_cycle ON charges(billing_cycle_id);
CREATE INDEX IF NOT EXISTS idx_charges_user ON charges(user_id);
CREATE INDEX IF NOT EXISTS idx_charge_types_category ON charge_types(category_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

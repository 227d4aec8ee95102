package database

// SchemaSQL is the complete schema, applied idempotently at startup. The
// unique indexes on chassis_number and auction_number are the correctness
// backstop for the application-level duplicate checks, which can race under
// concurrent inserts.
const SchemaSQL = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	username TEXT NOT NULL,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	password_salt TEXT NOT NULL,
	phone_number TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email);

CREATE TABLE IF NOT EXISTS purchases (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	purchase_date DATE NOT NULL,
	auction_number BIGINT NOT NULL CHECK (auction_number > 0),
	maker TEXT NOT NULL,
	chassis_number TEXT NOT NULL,
	push DOUBLE PRECISION NOT NULL CHECK (push >= 0),
	tax DOUBLE PRECISION NOT NULL CHECK (tax >= 0),
	auction_fee DOUBLE PRECISION NOT NULL CHECK (auction_fee >= 0),
	recycle DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (recycle >= 0),
	risko DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (risko >= 0),
	total DOUBLE PRECISION NOT NULL CHECK (total >= 0),
	sold_price DOUBLE PRECISION CHECK (sold_price >= 0),
	auction TEXT NOT NULL,
	yard TEXT NOT NULL DEFAULT '',
	load_date DATE,
	eta DATE,
	model_year TEXT NOT NULL DEFAULT '',
	expiry_date TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'purchased' CHECK (status IN (
		'purchased', 'load_requested', 'loaded', 'available', 'sold', 'released', 'expired'
	)),
	created_by UUID,
	created_by_name TEXT NOT NULL DEFAULT '',
	updated_by UUID,
	updated_by_name TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS purchases_chassis_number_key ON purchases (chassis_number);
CREATE UNIQUE INDEX IF NOT EXISTS purchases_auction_number_key ON purchases (auction_number);
CREATE INDEX IF NOT EXISTS purchases_status_idx ON purchases (status);
CREATE INDEX IF NOT EXISTS purchases_purchase_date_idx ON purchases (purchase_date DESC);
CREATE INDEX IF NOT EXISTS purchases_created_at_idx ON purchases (created_at DESC);
`

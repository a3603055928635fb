package sqlstore

import "github.com/jcmexdev/shop-services/internal/pkg/database"

var Schema = database.Schema{
	SQLite: `
CREATE TABLE IF NOT EXISTS customers_week05 (
    customer_id      INTEGER PRIMARY KEY AUTOINCREMENT,
    email            VARCHAR(255) NOT NULL UNIQUE,
    password_hash    VARCHAR(255) NOT NULL,
    first_name       VARCHAR(255) NOT NULL,
    last_name        VARCHAR(255) NOT NULL,
    phone_number     VARCHAR(50),
    shipping_address TEXT,
    created_at       TIMESTAMP NOT NULL,
    updated_at       TIMESTAMP
);
`,
	Postgres: `
CREATE TABLE IF NOT EXISTS customers_week05 (
    customer_id      BIGSERIAL PRIMARY KEY,
    email            VARCHAR(255) NOT NULL UNIQUE,
    password_hash    VARCHAR(255) NOT NULL,
    first_name       VARCHAR(255) NOT NULL,
    last_name        VARCHAR(255) NOT NULL,
    phone_number     VARCHAR(50),
    shipping_address TEXT,
    created_at       TIMESTAMPTZ NOT NULL,
    updated_at       TIMESTAMPTZ
);
`,
}

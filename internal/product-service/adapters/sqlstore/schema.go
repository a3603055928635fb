package sqlstore

import "github.com/jcmexdev/shop-services/internal/pkg/database"

var Schema = database.Schema{
	SQLite: `
CREATE TABLE IF NOT EXISTS products_week05 (
    product_id     INTEGER PRIMARY KEY AUTOINCREMENT,
    name           VARCHAR(255) NOT NULL,
    description    TEXT,
    price          TEXT NOT NULL,
    stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
    image_url      VARCHAR(2048),
    created_at     TIMESTAMP NOT NULL,
    updated_at     TIMESTAMP
);
CREATE INDEX IF NOT EXISTS ix_products_week05_name ON products_week05 (name);
`,
	Postgres: `
CREATE TABLE IF NOT EXISTS products_week05 (
    product_id     BIGSERIAL PRIMARY KEY,
    name           VARCHAR(255) NOT NULL,
    description    TEXT,
    price          NUMERIC(10, 2) NOT NULL,
    stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
    image_url      VARCHAR(2048),
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS ix_products_week05_name ON products_week05 (name);
`,
}

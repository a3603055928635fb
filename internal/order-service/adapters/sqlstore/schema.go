package sqlstore

import "github.com/jcmexdev/shop-services/internal/pkg/database"

// Schema creates the order tables. Money is TEXT on SQLite so decimals are
// stored exactly.
var Schema = database.Schema{
	SQLite: `
CREATE TABLE IF NOT EXISTS orders_week05 (
    order_id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id          INTEGER NOT NULL,
    order_date       TIMESTAMP NOT NULL,
    status           VARCHAR(50) NOT NULL DEFAULT 'pending',
    total_amount     TEXT NOT NULL,
    shipping_address TEXT,
    created_at       TIMESTAMP NOT NULL,
    updated_at       TIMESTAMP
);
CREATE INDEX IF NOT EXISTS ix_orders_week05_user_id ON orders_week05 (user_id);
CREATE INDEX IF NOT EXISTS ix_orders_week05_status ON orders_week05 (status);
CREATE TABLE IF NOT EXISTS order_items_week05 (
    order_item_id     INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id          INTEGER NOT NULL REFERENCES orders_week05 (order_id) ON DELETE CASCADE,
    product_id        INTEGER NOT NULL,
    quantity          INTEGER NOT NULL CHECK (quantity >= 1),
    price_at_purchase TEXT NOT NULL,
    item_total        TEXT NOT NULL,
    created_at        TIMESTAMP NOT NULL,
    updated_at        TIMESTAMP
);
CREATE INDEX IF NOT EXISTS ix_order_items_week05_order_id ON order_items_week05 (order_id);
`,
	Postgres: `
CREATE TABLE IF NOT EXISTS orders_week05 (
    order_id         BIGSERIAL PRIMARY KEY,
    user_id          BIGINT NOT NULL,
    order_date       TIMESTAMPTZ NOT NULL,
    status           VARCHAR(50) NOT NULL DEFAULT 'pending',
    total_amount     NUMERIC(10, 2) NOT NULL,
    shipping_address TEXT,
    created_at       TIMESTAMPTZ NOT NULL,
    updated_at       TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS ix_orders_week05_user_id ON orders_week05 (user_id);
CREATE INDEX IF NOT EXISTS ix_orders_week05_status ON orders_week05 (status);
CREATE TABLE IF NOT EXISTS order_items_week05 (
    order_item_id     BIGSERIAL PRIMARY KEY,
    order_id          BIGINT NOT NULL REFERENCES orders_week05 (order_id) ON DELETE CASCADE,
    product_id        BIGINT NOT NULL,
    quantity          INTEGER NOT NULL CHECK (quantity >= 1),
    price_at_purchase NUMERIC(10, 2) NOT NULL,
    item_total        NUMERIC(10, 2) NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL,
    updated_at        TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS ix_order_items_week05_order_id ON order_items_week05 (order_id);
`,
}

package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (menu/tables)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('WAITER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));

-- Products (menu + stock)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  category TEXT NOT NULL CHECK (category IN ('STARTER','MAIN_COURSE','DRINK','DESSERT')),
  image_url TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_nocase ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_stock    ON products(stock);

-- Tables (seating)
CREATE TABLE IF NOT EXISTS tables(
  id TEXT PRIMARY KEY,
  label TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'FREE' CHECK (status IN ('FREE','OCCUPIED'))
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_tables_label_nocase ON tables(LOWER(label));

-- Sales
CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  table_id TEXT NOT NULL REFERENCES tables(id),
  created_at TEXT NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('PENDING','COMPLETED')),
  discount NUMERIC NOT NULL DEFAULT 0 CHECK (discount >= 0),
  note TEXT NOT NULL DEFAULT '',
  total NUMERIC NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);
CREATE INDEX IF NOT EXISTS idx_sales_user       ON sales(user_id);
CREATE INDEX IF NOT EXISTS idx_sales_table      ON sales(table_id);

CREATE TABLE IF NOT EXISTS sale_lines(
  id TEXT PRIMARY KEY,
  sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  qty INTEGER NOT NULL CHECK (qty >= 1),
  unit_price NUMERIC NOT NULL,
  subtotal NUMERIC NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sale_lines_sale    ON sale_lines(sale_id);
CREATE INDEX IF NOT EXISTS idx_sale_lines_product ON sale_lines(product_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo menu/tables")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,description,price,stock,category,image_url) VALUES
	  ('p-bruschetta','Bruschetta','Grilled bread, tomato, basil','6.50',40,'STARTER',''),
	  ('p-carbonara','Spaghetti Carbonara','Guanciale, pecorino, egg','12.00',25,'MAIN_COURSE',''),
	  ('p-margherita','Pizza Margherita','Tomato, mozzarella, basil','10.00',30,'MAIN_COURSE',''),
	  ('p-espresso','Espresso','Single shot','1.80',200,'DRINK',''),
	  ('p-house-red','House Red (glass)','Montepulciano','4.50',60,'DRINK',''),
	  ('p-tiramisu','Tiramisu','Classic, house made','5.50',18,'DESSERT','')`)

	tx.MustExec(`INSERT INTO tables(id,label,status) VALUES
	  ('t-01','T1','FREE'),
	  ('t-02','T2','FREE'),
	  ('t-03','T3','FREE'),
	  ('t-04','T4','FREE'),
	  ('t-terrace-1','Terrace 1','FREE'),
	  ('t-terrace-2','Terrace 2','FREE')`)

	return tx.Commit()
}

// seedUsers ensures one WAITER and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Username, Name, Role, Hash string
	}
	mk := func(id, username, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Username: username, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-marta", "marta", "Marta", "WAITER", "Passw0rd!"),
		mk("u-diego", "diego", "Diego", "WAITER", "Passw0rd!"),
		mk("u-admin", "admin", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,username,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT DO NOTHING
		`, x.ID, x.Username, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

package migrations

import (
	"database/sql"
	"time"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id INT AUTO_INCREMENT PRIMARY KEY,
		category_id INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		FOREIGN KEY (category_id) REFERENCES categories(id)
	);`,
	`CREATE TABLE IF NOT EXISTS variants (
		id INT AUTO_INCREMENT PRIMARY KEY,
		product_id INT NOT NULL,
		label VARCHAR(50) NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL,
		stock INT NOT NULL DEFAULT 0,
		FOREIGN KEY (product_id) REFERENCES products(id)
	);`,
	`CREATE TABLE IF NOT EXISTS promotions (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		type VARCHAR(20) NOT NULL,
		value DECIMAL(10,2) NOT NULL,
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS promotion_variants (
		promotion_id INT NOT NULL,
		variant_id INT NOT NULL,
		PRIMARY KEY (promotion_id, variant_id),
		FOREIGN KEY (promotion_id) REFERENCES promotions(id),
		FOREIGN KEY (variant_id) REFERENCES variants(id)
	);`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		variant_id INT NOT NULL,
		quantity INT NOT NULL,
		UNIQUE KEY uq_cart_user_variant (user_id, variant_id),
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (variant_id) REFERENCES variants(id)
	);`,
	`CREATE TABLE IF NOT EXISTS delivery_zones (
		id INT AUTO_INCREMENT PRIMARY KEY,
		district VARCHAR(100) NOT NULL,
		cost DECIMAL(10,2) NOT NULL,
		estimated_days INT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS cards (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		masked_number VARCHAR(25) NOT NULL,
		holder VARCHAR(100) NOT NULL,
		expiry_month INT NOT NULL,
		expiry_year INT NOT NULL,
		balance DECIMAL(10,2) NOT NULL DEFAULT 0,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		zone_id INT NULL,
		address VARCHAR(255) NOT NULL,
		payment_method VARCHAR(20) NOT NULL,
		card_id INT NULL,
		subtotal DECIMAL(10,2) NOT NULL,
		discount DECIMAL(10,2) NOT NULL,
		delivery_cost DECIMAL(10,2) NOT NULL,
		total DECIMAL(10,2) NOT NULL,
		status VARCHAR(20) NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id INT NOT NULL,
		variant_id INT NOT NULL,
		product_name VARCHAR(255) NOT NULL,
		variant_label VARCHAR(50) NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL,
		effective_price DECIMAL(10,2) NOT NULL,
		quantity INT NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	);`,
}

// AutoMigrate creates every table if it does not exist. Tables are declared in
// foreign-key dependency order.
func AutoMigrate(retries int, db *sql.DB) error {
	for _, query := range tables {
		_, err := db.Exec(query)
		for i := 0; err != nil && i < retries; i++ {
			time.Sleep(1 * time.Second)
			_, err = db.Exec(query)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

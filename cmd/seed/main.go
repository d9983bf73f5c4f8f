package main

import (
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/ardiansyahdev/account-service/config"
	"github.com/ardiansyahdev/account-service/pkg/helpers"
)

// Seeds a verified admin account for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@example.com"
	userName := "admin_user"
	password := "ChangeMe123!"

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	res, err := db.Exec(`
		INSERT INTO users (name, user_name, phone, email, role, status, password_hash, verified)
		VALUES ($1, $2, $3, $4, 'admin', 'active', $5, TRUE)
		ON CONFLICT (lower(email)) DO NOTHING
	`, "Admin", userName, "+10000000000", email, hash)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Printf("admin %s already present, nothing to do", email)
		return
	}
	log.Printf("seeded admin %s (username %s)", email, userName)
}

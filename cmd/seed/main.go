package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/config"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/database"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/utils"
)

// seed prepares a fresh installation: it runs migrations, creates the
// default admin account and optionally bulk-loads CSV fixtures into the
// three dashboards.  CSV rows go straight into the tables, so files are
// expected to already contain valid enum values.
func main() {
	_ = godotenv.Load()

	var (
		adminUser = flag.String("admin-user", "admin", "username for the seeded admin account")
		adminPass = flag.String("admin-pass", "adminpass", "password for the seeded admin account")
		incCSV    = flag.String("incidents", "", "path to an incidents CSV (title,category,severity,status,reported_at,resolved_at)")
		dsCSV     = flag.String("datasets", "", "path to a datasets CSV (name,row_count,column_count,uploader,created_at)")
		tkCSV     = flag.String("tickets", "", "path to a tickets CSV (title,priority,status,assignee,created_at,resolved_at)")
	)
	flag.Parse()

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := seedAdmin(ctx, db, *adminUser, *adminPass, cfg.BcryptCost); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if *incCSV != "" {
		n, err := loadCSV(ctx, db, *incCSV, 6,
			`INSERT INTO incidents (title, category, severity, status, reported_at, resolved_at) VALUES (?, ?, ?, ?, ?, ?)`,
			incidentArgs)
		if err != nil {
			log.Fatalf("load incidents: %v", err)
		}
		log.Printf("loaded %d incidents from %s", n, *incCSV)
	}
	if *dsCSV != "" {
		n, err := loadCSV(ctx, db, *dsCSV, 5,
			`INSERT INTO datasets (name, row_count, column_count, uploader, created_at) VALUES (?, ?, ?, ?, ?)`,
			datasetArgs)
		if err != nil {
			log.Fatalf("load datasets: %v", err)
		}
		log.Printf("loaded %d datasets from %s", n, *dsCSV)
	}
	if *tkCSV != "" {
		n, err := loadCSV(ctx, db, *tkCSV, 6,
			`INSERT INTO tickets (title, priority, status, assignee, created_at, resolved_at) VALUES (?, ?, ?, ?, ?, ?)`,
			ticketArgs)
		if err != nil {
			log.Fatalf("load tickets: %v", err)
		}
		log.Printf("loaded %d tickets from %s", n, *tkCSV)
	}
	log.Println("seed complete")
}

// seedAdmin inserts the admin account if no user with that name exists.
func seedAdmin(ctx context.Context, db *sql.DB, username, password string, cost int) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		log.Printf("user %q already exists, skipping", username)
		return nil
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
		username, hash, model.RoleAdmin)
	if err == nil {
		log.Printf("created admin user %q", username)
	}
	return err
}

// rowArgs converts one CSV record into the bind arguments for the
// matching INSERT.
type rowArgs func(rec []string) ([]any, error)

// loadCSV streams file into db one row at a time inside a single
// transaction.  The first record is treated as a header and skipped.
func loadCSV(ctx context.Context, db *sql.DB, path string, fields int, query string, args rowArgs) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	if _, err := r.Read(); err != nil { // header
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		bind, err := args(rec)
		if err != nil {
			return n, err
		}
		if _, err := stmt.ExecContext(ctx, bind...); err != nil {
			return n, err
		}
		n++
	}
	return n, tx.Commit()
}

func incidentArgs(rec []string) ([]any, error) {
	reported, err := parseTime(rec[4])
	if err != nil {
		return nil, err
	}
	resolved, err := parseOptTime(rec[5])
	if err != nil {
		return nil, err
	}
	return []any{rec[0], rec[1], rec[2], rec[3], reported, resolved}, nil
}

func datasetArgs(rec []string) ([]any, error) {
	rows, err := strconv.ParseInt(rec[1], 10, 64)
	if err != nil {
		return nil, err
	}
	cols, err := strconv.ParseInt(rec[2], 10, 64)
	if err != nil {
		return nil, err
	}
	created, err := parseTime(rec[4])
	if err != nil {
		return nil, err
	}
	return []any{rec[0], rows, cols, rec[3], created}, nil
}

func ticketArgs(rec []string) ([]any, error) {
	created, err := parseTime(rec[4])
	if err != nil {
		return nil, err
	}
	resolved, err := parseOptTime(rec[5])
	if err != nil {
		return nil, err
	}
	return []any{rec[0], rec[1], rec[2], rec[3], created, resolved}, nil
}

// timeLayouts are the formats fixture files are allowed to use.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseOptTime maps an empty field to NULL.
func parseOptTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

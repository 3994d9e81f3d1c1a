package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
	pingTimeout     = 5 * time.Second
)

// Executor *sql.DB ve *sql.Tx'in ortak sorgu yüzeyi.
// Repository'ler bununla çalışır, böylece aynı kod transaction içinde de kullanılabilir.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Connect veritabanına bağlanır; Postgres henüz ayağa kalkmadıysa artan aralıklarla tekrar dener
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("veritabanı açılırken hata: %w", err)
	}

	// API ve cron süreçleri aynı veritabanını paylaşır
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := waitForDB(context.Background(), db, connectAttempts, connectBackoff); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Msg("✅ PostgreSQL veritabanına başarıyla bağlandı")
	return db, nil
}

func waitForDB(ctx context.Context, db *sql.DB, attempts int, backoff time.Duration) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}

		log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", attempts).Msg("Veritabanı henüz hazır değil")
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("veritabanına ping atılamadı (%d deneme): %w", attempts, err)
}

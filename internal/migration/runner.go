package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/db"
)

// aynı anda iki sürecin migration çalıştırmasını engelleyen advisory lock anahtarı
const advisoryLockKey int64 = 7_340_112_025

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type appliedRecord struct {
	checksum  string
	appliedAt time.Time
}

// Runner migration işlemlerini yönetir
type Runner struct {
	db     *sql.DB
	config *Config
}

// NewRunner yeni migration runner oluşturur
func NewRunner(database *sql.DB, config *Config) (*Runner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if !tableNamePattern.MatchString(config.TableName) {
		return nil, fmt.Errorf("geçersiz migration tablo adı: %q", config.TableName)
	}
	return &Runner{db: database, config: config}, nil
}

// Initialize takip tablosunu oluşturur
func (r *Runner) Initialize(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version BIGINT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			up_checksum VARCHAR(64) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			execution_time_ms BIGINT NOT NULL DEFAULT 0
		)
	`, r.config.TableName)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migration tablosu oluşturulamadı: %w", err)
	}

	log.Info().Str("table", r.config.TableName).Msg("Migration sistemi hazır")
	return nil
}

func (r *Runner) loadApplied(ctx context.Context) (map[int64]appliedRecord, error) {
	query := fmt.Sprintf(`SELECT version, up_checksum, applied_at FROM %s ORDER BY version ASC`, r.config.TableName)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		if isUndefinedTable(err) {
			return map[int64]appliedRecord{}, nil
		}
		return nil, fmt.Errorf("uygulanan migration'lar okunamadı: %w", err)
	}
	defer rows.Close()

	applied := make(map[int64]appliedRecord)
	for rows.Next() {
		var version int64
		var rec appliedRecord
		if err := rows.Scan(&version, &rec.checksum, &rec.appliedAt); err != nil {
			return nil, fmt.Errorf("migration kaydı okunamadı: %w", err)
		}
		applied[version] = rec
	}
	return applied, rows.Err()
}

// isUndefinedTable Postgres 42P01 (tablo yok) hatası mı
func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "42P01"
}

// Load diskteki migration'ları uygulanma durumlarıyla döner
func (r *Runner) Load(ctx context.Context) ([]Migration, error) {
	migrations, err := LoadFromDisk(r.config.MigrationsPath, r.config.RequireDownFiles)
	if err != nil {
		return nil, err
	}

	applied, err := r.loadApplied(ctx)
	if err != nil {
		return nil, err
	}

	for i := range migrations {
		rec, ok := applied[migrations[i].Version]
		if !ok {
			continue
		}
		appliedAt := rec.appliedAt
		migrations[i].Applied = true
		migrations[i].AppliedAt = &appliedAt

		if r.config.ValidateChecksums && rec.checksum != migrations[i].UpChecksum {
			migrations[i].ChecksumDiff = true
			if !r.config.AllowDirty {
				return nil, fmt.Errorf("migration %d uygulandıktan sonra değiştirilmiş", migrations[i].Version)
			}
			log.Warn().Int64("version", migrations[i].Version).Msg("Checksum uyuşmazlığı, dirty mod açık")
		}
	}
	return migrations, nil
}

// GetStatus durum özetini döner
func (r *Runner) GetStatus(ctx context.Context) (*Status, error) {
	migrations, err := r.Load(ctx)
	if err != nil {
		return &Status{SystemHealth: StatusError}, err
	}

	status := &Status{Migrations: migrations, SystemHealth: StatusHealthy}
	for _, m := range migrations {
		if m.Applied {
			status.AppliedCount++
			status.CurrentVersion = m.Version
			if m.ChecksumDiff {
				status.SystemHealth = StatusError
			}
		} else {
			status.PendingCount++
		}
	}
	if status.PendingCount > 0 && status.SystemHealth == StatusHealthy {
		status.SystemHealth = StatusWarning
	}
	return status, nil
}

// RunUp bekleyen migration'ları sırayla uygular; target > 0 ise o version'da durur
func (r *Runner) RunUp(ctx context.Context, target int64) ([]Result, error) {
	if err := r.Initialize(ctx); err != nil {
		return nil, err
	}

	migrations, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, m := range migrations {
		if m.Applied {
			continue
		}
		if target > 0 && m.Version > target {
			break
		}

		result := r.execute(ctx, m, DirectionUp)
		results = append(results, result)
		if !result.Success {
			return results, fmt.Errorf("migration %d başarısız: %s", m.Version, result.Error)
		}
	}
	return results, nil
}

// RunDown target'tan büyük uygulanmış migration'ları tersten geri alır
func (r *Runner) RunDown(ctx context.Context, target int64) ([]Result, error) {
	migrations, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	var results []Result
	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		if !m.Applied || m.Version <= target {
			continue
		}
		if !m.HasDownFile {
			return results, fmt.Errorf("migration %d için DOWN dosyası yok", m.Version)
		}

		result := r.execute(ctx, m, DirectionDown)
		results = append(results, result)
		if !result.Success {
			return results, fmt.Errorf("rollback %d başarısız: %s", m.Version, result.Error)
		}
	}
	return results, nil
}

// execute tek migration'ı kendi transaction'ında, advisory lock altında çalıştırır
func (r *Runner) execute(ctx context.Context, m Migration, direction Direction) Result {
	result := Result{Version: m.Version, Name: m.Name, Direction: direction}
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	err := db.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
			return fmt.Errorf("migration kilidi alınamadı: %w", err)
		}

		var exists bool
		existsQuery := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE version = $1)`, r.config.TableName)
		if err := tx.QueryRowContext(ctx, existsQuery, m.Version).Scan(&exists); err != nil {
			return fmt.Errorf("migration kaydı kontrol edilemedi: %w", err)
		}

		if (direction == DirectionUp) == exists {
			result.Skipped = true
			return nil
		}

		if direction == DirectionUp {
			if _, err := tx.ExecContext(ctx, m.UpSQL); err != nil {
				return fmt.Errorf("UP SQL hatası: %w", err)
			}
			insert := fmt.Sprintf(`INSERT INTO %s (version, name, up_checksum, execution_time_ms) VALUES ($1, $2, $3, $4)`, r.config.TableName)
			if _, err := tx.ExecContext(ctx, insert, m.Version, m.Name, m.UpChecksum, time.Since(started).Milliseconds()); err != nil {
				return fmt.Errorf("migration kaydedilemedi: %w", err)
			}
			return nil
		}

		if _, err := tx.ExecContext(ctx, m.DownSQL); err != nil {
			return fmt.Errorf("DOWN SQL hatası: %w", err)
		}
		remove := fmt.Sprintf(`DELETE FROM %s WHERE version = $1`, r.config.TableName)
		if _, err := tx.ExecContext(ctx, remove, m.Version); err != nil {
			return fmt.Errorf("migration kaydı silinemedi: %w", err)
		}
		return nil
	})

	result.ExecutionTime = time.Since(started)
	if err != nil {
		result.Error = err.Error()
		log.Error().Err(err).Int64("version", m.Version).Str("direction", string(direction)).Msg("Migration başarısız")
		return result
	}

	result.Success = true
	log.Info().
		Int64("version", m.Version).
		Str("name", m.Name).
		Str("direction", string(direction)).
		Bool("skipped", result.Skipped).
		Dur("duration", result.ExecutionTime).
		Msg("Migration tamamlandı")
	return result
}

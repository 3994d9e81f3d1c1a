package migration

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// 20251001000001_create_users.up.sql
var migrationFilePattern = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.(up|down)\.sql$`)

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9]+`)

// LoadFromDisk klasördeki migration'ları version sırasıyla okur
func LoadFromDisk(path string, requireDown bool) ([]Migration, error) {
	upFiles, err := filepath.Glob(filepath.Join(path, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("migration dosyaları listelenemedi: %w", err)
	}

	migrations := make([]Migration, 0, len(upFiles))
	seen := make(map[int64]string)
	for _, upFile := range upFiles {
		m, err := parseMigration(upFile)
		if err != nil {
			log.Warn().Err(err).Str("file", upFile).Msg("Migration dosyası atlandı")
			continue
		}
		if other, dup := seen[m.Version]; dup {
			return nil, fmt.Errorf("version %d iki kez kullanılmış: %s, %s", m.Version, other, m.Name)
		}
		if requireDown && !m.HasDownFile {
			return nil, fmt.Errorf("migration %d için DOWN dosyası yok", m.Version)
		}
		seen[m.Version] = m.Name
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func parseMigration(upFile string) (Migration, error) {
	matches := migrationFilePattern.FindStringSubmatch(filepath.Base(upFile))
	if len(matches) != 4 {
		return Migration{}, fmt.Errorf("geçersiz migration dosya adı: %s", filepath.Base(upFile))
	}

	version, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return Migration{}, fmt.Errorf("geçersiz version %s: %w", matches[1], err)
	}

	up, err := os.ReadFile(upFile)
	if err != nil {
		return Migration{}, fmt.Errorf("UP dosyası okunamadı: %w", err)
	}

	m := Migration{
		Version:    version,
		Name:       matches[2],
		UpSQL:      string(up),
		UpChecksum: checksum(up),
	}

	downFile := strings.TrimSuffix(upFile, ".up.sql") + ".down.sql"
	if down, err := os.ReadFile(downFile); err == nil {
		m.DownSQL = string(down)
		m.HasDownFile = true
	}

	return m, nil
}

func checksum(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// CleanName migration adını dosya adına uygun hale getirir
func CleanName(name string) string {
	return strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// Create boş UP/DOWN dosya çifti oluşturur ve yollarını döner
func Create(path, name string, now time.Time) (string, string, error) {
	clean := CleanName(name)
	if clean == "" {
		return "", "", fmt.Errorf("migration adı boş olamaz")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return "", "", fmt.Errorf("migration klasörü oluşturulamadı: %w", err)
	}

	version := now.UTC().Format("20060102150405")
	upPath := filepath.Join(path, fmt.Sprintf("%s_%s.up.sql", version, clean))
	downPath := filepath.Join(path, fmt.Sprintf("%s_%s.down.sql", version, clean))

	if err := os.WriteFile(upPath, []byte(fmt.Sprintf("-- Migration: %s\n\n", name)), 0644); err != nil {
		return "", "", fmt.Errorf("UP dosyası oluşturulamadı: %w", err)
	}
	if err := os.WriteFile(downPath, []byte(fmt.Sprintf("-- Rollback: %s\n\n", name)), 0644); err != nil {
		return "", "", fmt.Errorf("DOWN dosyası oluşturulamadı: %w", err)
	}
	return upPath, downPath, nil
}

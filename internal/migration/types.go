package migration

import (
	"path/filepath"
	"time"
)

// Direction migration yönü
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// HealthStatus migration sisteminin genel durumu
type HealthStatus string

const (
	StatusHealthy HealthStatus = "healthy" // tüm migration'lar uygulanmış
	StatusWarning HealthStatus = "warning" // bekleyen migration var
	StatusError   HealthStatus = "error"   // checksum uyuşmazlığı
)

// Migration diskteki bir migration çifti (+ uygulanma durumu)
type Migration struct {
	Version      int64      `json:"version"` // YYYYMMDDHHMMSS
	Name         string     `json:"name"`
	UpSQL        string     `json:"-"`
	DownSQL      string     `json:"-"`
	UpChecksum   string     `json:"up_checksum"`
	HasDownFile  bool       `json:"has_down_file"`
	Applied      bool       `json:"applied"`
	AppliedAt    *time.Time `json:"applied_at,omitempty"`
	ChecksumDiff bool       `json:"checksum_diff,omitempty"`
}

// Status migration durum özeti
type Status struct {
	CurrentVersion int64        `json:"current_version"`
	Migrations     []Migration  `json:"migrations"`
	AppliedCount   int          `json:"applied_count"`
	PendingCount   int          `json:"pending_count"`
	SystemHealth   HealthStatus `json:"system_health"`
}

// Result tek migration çalıştırmasının sonucu
type Result struct {
	Version       int64         `json:"version"`
	Name          string        `json:"name"`
	Direction     Direction     `json:"direction"`
	Success       bool          `json:"success"`
	Skipped       bool          `json:"skipped,omitempty"` // başka süreç önce uyguladı
	ExecutionTime time.Duration `json:"execution_time"`
	Error         string        `json:"error,omitempty"`
}

// Config migration ayarları
type Config struct {
	MigrationsPath    string
	TableName         string
	ValidateChecksums bool
	AllowDirty        bool // checksum uyuşmazlığında sadece uyar
	RequireDownFiles  bool
	Timeout           time.Duration // migration başına
}

// DefaultConfig varsayılan ayarlar
func DefaultConfig() *Config {
	absPath, err := filepath.Abs("./migrations")
	if err != nil {
		absPath = "./migrations"
	}

	return &Config{
		MigrationsPath:    absPath,
		TableName:         "schema_migrations",
		ValidateChecksums: true,
		AllowDirty:        false,
		RequireDownFiles:  false,
		Timeout:           15 * time.Minute,
	}
}

// CLIConfig CLI için: DOWN dosyası zorunlu
func CLIConfig() *Config {
	c := DefaultConfig()
	c.RequireDownFiles = true
	c.Timeout = 30 * time.Minute
	return c
}

// DevelopmentConfig değişmiş dosyalara izin verir
func DevelopmentConfig() *Config {
	c := DefaultConfig()
	c.AllowDirty = true
	return c
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultJWTSecret sadece geliştirme ortamı içindir, production'da kabul edilmez
const DefaultJWTSecret = "your-secret-key-change-this-in-production"

// Config ortam yapılandırmalarını tutar
type Config struct {
	AppEnv string
	Port   string
	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	JWTSecret string

	// Telegram bot ayarları
	BotToken       string
	TelegramAPIURL string
	AppURL         string
	// InitDataMaxAge mini-app initData imzasının kabul edildiği en uzun süre
	InitDataMaxAge time.Duration

	// AdminRecipients admin bildirimlerinin gideceği Telegram id listesi
	AdminRecipients []int64

	BinanceAPIURL string

	// Portföy takvimi (hafta pencereleri, vade kontrolü) bu zaman diliminde hesaplanır
	BusinessTimezone string
	// ProlongThresholds vade bitimine kaç gün kala uyarı verileceği
	ProlongThresholds []int

	QueueWorkers    int
	QueueBufferSize int

	// HTTP katmanı
	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int

	Scheduler SchedulerConfig
}

// SchedulerConfig cron ifadeleri (saniye hassasiyetli)
type SchedulerConfig struct {
	MaturityScan string
	BitcoinPrice string
}

// yardımcı fonksiyon: ortam değişkeni yoksa default değeri döner
func getEnv(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvInt(key string, defaultVal int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Geçersiz sayı, varsayılan kullanılıyor")
		return defaultVal
	}
	return val
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("Geçersiz süre, varsayılan kullanılıyor")
		return defaultVal
	}
	return val
}

// parseIDList "123, 456" formatındaki listeyi parse eder, geçersiz değerleri atlar
func parseIDList(raw string) []int64 {
	ids := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Warn().Str("value", part).Msg("Geçersiz admin Telegram id atlandı")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func parseList(raw string) []string {
	values := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func parseIntList(raw string) []int {
	values := make([]int, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			continue
		}
		values = append(values, v)
	}
	return values
}

// LoadConfig tüm yapılandırmayı yükler
func LoadConfig() *Config {
	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),
		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBUser: getEnv("DB_USER", "investor"),
		DBPass: getEnv("DB_PASS", "password"),
		DBName: getEnv("DB_NAME", "portfoliodb"),

		JWTSecret: getEnv("JWT_SECRET", DefaultJWTSecret),

		BotToken:       getEnv("BOT_TOKEN", ""),
		TelegramAPIURL: getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		AppURL:         getEnv("APP_URL", ""),
		InitDataMaxAge: getEnvDuration("TELEGRAM_INIT_DATA_MAX_AGE", 24*time.Hour),

		AdminRecipients: parseIDList(getEnv("ADMIN_TELEGRAM_IDS", "")),

		BinanceAPIURL: getEnv("BINANCE_API_URL", "https://api.binance.com"),

		BusinessTimezone:  getEnv("BUSINESS_TIMEZONE", "Europe/Moscow"),
		ProlongThresholds: parseIntList(getEnv("PROLONG_THRESHOLD_DAYS", "7,14")),

		QueueWorkers:    getEnvInt("QUEUE_WORKERS", 4),
		QueueBufferSize: getEnvInt("QUEUE_BUFFER_SIZE", 64),

		AllowedOrigins:     parseList(getEnv("ALLOWED_ORIGINS", "")),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),

		Scheduler: SchedulerConfig{
			MaturityScan: getEnv("CRON_MATURITY_SCAN", "0 0 12 * * *"),
			BitcoinPrice: getEnv("CRON_BITCOIN_PRICE", "0 5 4 * * *"),
		},
	}

	if len(cfg.ProlongThresholds) == 0 {
		cfg.ProlongThresholds = []int{7, 14}
	}
	if cfg.QueueWorkers <= 0 {
		cfg.QueueWorkers = 1
	}
	if cfg.QueueBufferSize <= 0 {
		cfg.QueueBufferSize = 1
	}

	if len(cfg.AllowedOrigins) == 0 && cfg.AppURL != "" {
		cfg.AllowedOrigins = []string{strings.TrimRight(cfg.AppURL, "/")}
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 120
	}

	return cfg
}

// IsProduction production ortamında mı
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate API sunucusu başlamadan önce zorunlu ayarları kontrol eder.
// Production'da varsayılan JWT secret ve boş BOT_TOKEN kabul edilmez.
func (c *Config) Validate() error {
	if !c.IsProduction() {
		return nil
	}

	var errs []error
	if c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET production ortamında tanımlanmalıdır"))
	}
	if c.BotToken == "" {
		errs = append(errs, errors.New("BOT_TOKEN production ortamında tanımlanmalıdır"))
	}
	return errors.Join(errs...)
}

// GetDSN veritabanı bağlantı URL'sini döner
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName,
	)
}

// Location iş zaman dilimini döner, yüklenemezse UTC+3 sabit offset kullanır
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.BusinessTimezone).Msg("Zaman dilimi yüklenemedi, UTC+3 kullanılıyor")
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// IsAdmin Telegram id'nin admin listesinde olup olmadığını kontrol eder
func (c *Config) IsAdmin(tlgID int64) bool {
	for _, id := range c.AdminRecipients {
		if id == tlgID {
			return true
		}
	}
	return false
}

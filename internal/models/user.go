package models

import (
	"time"
)

// Kullanıcı rolleri
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Desteklenen bildirim dilleri
const (
	LanguageRU      = "ru"
	LanguageDE      = "de"
	DefaultLanguage = LanguageDE
)

// User Telegram mini-app kullanıcısını temsil eder
type User struct {
	ID            int64     `json:"id" db:"id"`
	TelegramID    int64     `json:"tlgid" db:"tlgid"`
	Username      string    `json:"username" db:"username"`
	Name          string    `json:"name" db:"name"`
	Language      string    `json:"language" db:"language"`
	Role          string    `json:"role" db:"role"`
	PasswordHash  string    `json:"-" db:"password_hash"` // JSON'da gösterilmez
	IsSetPassword bool      `json:"is_set_password" db:"is_set_password"`
	IsFirstEnter  bool      `json:"is_first_enter" db:"is_first_enter"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// EnterRequest mini-app'e giriş isteği (kullanıcı yoksa oluşturulur).
// Kimlik sadece imzalı Telegram initData'dan okunur.
type EnterRequest struct {
	InitData string `json:"init_data"`
	Language string `json:"language"` // boşsa initData'daki language_code kullanılır
}

// SetPasswordRequest şifre belirleme isteği
type SetPasswordRequest struct {
	InitData string `json:"init_data"`
	Password string `json:"password"`
}

// LoginRequest giriş isteği
type LoginRequest struct {
	TelegramID int64  `json:"tlgid"`
	Password   string `json:"password"`
}

// LoginResponse giriş yanıtı
type LoginResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// RefreshResponse token refresh yanıtı
type RefreshResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// RefreshRequest süresi dolmuş token
type RefreshRequest struct {
	Token string `json:"token"`
}

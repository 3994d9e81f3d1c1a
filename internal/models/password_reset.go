package models

import "time"

// Şifre sıfırlama talebi durumları
const (
	PasswordResetNew       = "new"
	PasswordResetConfirmed = "confirmed"
	PasswordResetRejected  = "rejected"
)

// ChangePasswordRequest kullanıcının şifre sıfırlama talebi.
// TelegramID ve UserName listeleme için users tablosundan gelir.
type ChangePasswordRequest struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	TelegramID int64     `json:"tlgid" db:"tlgid"`
	UserName   string    `json:"name" db:"name"`
	Status     string    `json:"status" db:"status"`
	IsOperated bool      `json:"is_operated" db:"is_operated"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// NewChangePasswordRequest şifre sıfırlama talebi girişi; kimlik imzalı initData'dan okunur
type NewChangePasswordRequest struct {
	InitData string `json:"init_data"`
}

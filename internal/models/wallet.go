package models

import "time"

// WalletAddress yatırım transferi için gösterilen cüzdan adresi (örn. "usdt_trc20")
type WalletAddress struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UpsertWalletAddressRequest admin adres güncelleme isteği
type UpsertWalletAddressRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

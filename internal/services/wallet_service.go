package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// WalletService yatırım transferi için cüzdan adresleri
type WalletService struct {
	wallets interfaces.WalletRepositoryInterface
}

// NewWalletService yeni service oluşturur
func NewWalletService(wallets interfaces.WalletRepositoryInterface) *WalletService {
	return &WalletService{wallets: wallets}
}

func walletName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetAddress adresi isme göre döner
func (s *WalletService) GetAddress(ctx context.Context, name string) (*models.WalletAddress, error) {
	key := walletName(name)
	if key == "" {
		return nil, apperrors.NewValidationError("name", "cüzdan adı zorunludur", name)
	}

	w, err := s.wallets.GetByName(ctx, key)
	if err != nil {
		return nil, notFoundOr(err, "wallet_address", "cüzdan adresi bulunamadı")
	}
	return w, nil
}

// UpsertAddress adresi ekler ya da günceller
func (s *WalletService) UpsertAddress(ctx context.Context, req *models.UpsertWalletAddressRequest) (*models.WalletAddress, error) {
	key := walletName(req.Name)
	if key == "" {
		return nil, apperrors.NewValidationError("name", "cüzdan adı zorunludur", req.Name)
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, apperrors.NewValidationError("address", "adres zorunludur", req.Address)
	}

	w, err := s.wallets.Upsert(ctx, key, address)
	if err != nil {
		return nil, err
	}

	log.Info().Str("name", key).Msg("Cüzdan adresi güncellendi")
	return w, nil
}

package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// Permission tek bir yetki
type Permission string

const (
	// Kullanıcı yetkileri
	PermViewOwnDeposits      Permission = "view_own_deposits"
	PermCreateDepositRequest Permission = "create_deposit_request"
	PermRequestProlongation  Permission = "request_prolongation"
	PermViewPrices           Permission = "view_prices"
	PermViewWallets          Permission = "view_wallets"

	// Admin yetkileri
	PermManageDepositRequests Permission = "manage_deposit_requests"
	PermViewAllDeposits       Permission = "view_all_deposits"
	PermSettleOperations      Permission = "settle_operations"
	PermManageRefunds         Permission = "manage_refunds"
	PermResolveProlongations  Permission = "resolve_prolongations"
	PermManagePrices          Permission = "manage_prices"
	PermRunJobs               Permission = "run_jobs"
	PermManageWallets         Permission = "manage_wallets"
	PermManagePasswordResets  Permission = "manage_password_resets"
)

var userPermissions = []Permission{
	PermViewOwnDeposits,
	PermCreateDepositRequest,
	PermRequestProlongation,
	PermViewPrices,
	PermViewWallets,
}

// RolePermissions rol başına yetkiler; admin kullanıcı yetkilerini de taşır
var RolePermissions = map[string][]Permission{
	models.RoleUser: userPermissions,
	models.RoleAdmin: append(append([]Permission{}, userPermissions...),
		PermManageDepositRequests,
		PermViewAllDeposits,
		PermSettleOperations,
		PermManageRefunds,
		PermResolveProlongations,
		PermManagePrices,
		PermRunJobs,
		PermManageWallets,
		PermManagePasswordResets,
	),
}

// RequirePermission AuthMiddleware'den sonra çalışır; yetki yoksa 403
func RequirePermission(permission Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				log.Error().Str("path", r.URL.Path).Msg("RBAC: claims yok, AuthMiddleware eksik olabilir")
				panic(&errors.AuthError{
					Message:    "Kimlik doğrulama gerekli",
					StatusCode: http.StatusUnauthorized,
				})
			}

			role := roleOf(claims.Role)
			if !hasPermission(role, permission) {
				log.Warn().
					Int64("user_id", claims.UserID).
					Str("role", role).
					Str("required_permission", string(permission)).
					Str("path", r.URL.Path).
					Msg("RBAC: yetki yetersiz")

				panic(&errors.RBACError{
					Message:    "Bu işlem için yetkiniz bulunmuyor",
					StatusCode: http.StatusForbidden,
					Resource:   r.URL.Path,
					Action:     r.Method,
				})
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin admin rolü ister
func RequireAdmin() func(http.Handler) http.Handler {
	return RequirePermission(PermRunJobs)
}

func hasPermission(role string, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// roleOf boş rolü kullanıcı rolüne düşürür
func roleOf(role string) string {
	if role == "" {
		return models.RoleUser
	}
	return role
}

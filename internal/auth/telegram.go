package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// webAppKey Telegram'ın WebApp imzası için sabit HMAC anahtarı
const webAppKey = "WebAppData"

var (
	// ErrInitDataDisabled BOT_TOKEN tanımlı değil, imza doğrulanamaz
	ErrInitDataDisabled = errors.New("telegram doğrulaması yapılandırılmamış")
	// ErrInitDataInvalid imza eksik ya da hatalı
	ErrInitDataInvalid = errors.New("initData imzası geçersiz")
	// ErrInitDataExpired auth_date çok eski
	ErrInitDataExpired = errors.New("initData süresi dolmuş")
)

// TelegramUser initData içindeki user alanı
type TelegramUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LanguageCode string `json:"language_code"`
}

// InitDataVerifier mini-app'in gönderdiği initData'yı bot token ile doğrular
type InitDataVerifier struct {
	botToken string
	maxAge   time.Duration
	now      func() time.Time
}

// NewInitDataVerifier yeni verifier oluşturur. maxAge sıfırsa auth_date kontrol edilmez.
func NewInitDataVerifier(botToken string, maxAge time.Duration) *InitDataVerifier {
	return &InitDataVerifier{botToken: botToken, maxAge: maxAge, now: time.Now}
}

// Verify imzayı ve auth_date'i kontrol eder, imzalı kullanıcıyı döner
func (v *InitDataVerifier) Verify(initData string) (*TelegramUser, error) {
	if v == nil || v.botToken == "" {
		return nil, ErrInitDataDisabled
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitDataInvalid, err)
	}

	got, err := hex.DecodeString(values.Get("hash"))
	if err != nil || len(got) == 0 {
		return nil, ErrInitDataInvalid
	}
	if !hmac.Equal(got, signature(v.botToken, values)) {
		return nil, ErrInitDataInvalid
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: auth_date okunamadı", ErrInitDataInvalid)
	}
	if v.maxAge > 0 && v.now().Sub(time.Unix(authDate, 0)) > v.maxAge {
		return nil, ErrInitDataExpired
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID <= 0 {
		return nil, fmt.Errorf("%w: user alanı okunamadı", ErrInitDataInvalid)
	}
	return &user, nil
}

// SignInitData alanları imzalayıp hash ile birlikte query string döner
func SignInitData(botToken string, fields url.Values) string {
	signed := url.Values{}
	for key, vals := range fields {
		if key != "hash" {
			signed[key] = vals
		}
	}
	signed.Set("hash", hex.EncodeToString(signature(botToken, signed)))
	return signed.Encode()
}

// signature data-check-string'in HMAC-SHA256 imzası: anahtar HMAC("WebAppData", botToken)
func signature(botToken string, values url.Values) []byte {
	keys := make([]string, 0, len(values))
	for key := range values {
		if key != "hash" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+"="+values.Get(key))
	}

	secret := hmac.New(sha256.New, []byte(webAppKey))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return mac.Sum(nil)
}

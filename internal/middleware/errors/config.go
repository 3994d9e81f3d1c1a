package errors

// ErrorConfig hata middleware'inin ayarları
type ErrorConfig struct {
	ShowStackTrace  bool           // sadece development
	CustomErrorMap  map[int]string // tipsiz hatalarda status'a göre gösterilecek mesaj
	IncludeHeaders  []string       // hata yanıtında korunan header'lar
	EnablePanicLogs bool           // panic loglarına stack trace ekle
	MaxErrorLength  int
}

// DefaultErrorConfig varsayılan ayarlar
func DefaultErrorConfig() *ErrorConfig {
	return &ErrorConfig{
		ShowStackTrace: false,
		CustomErrorMap: map[int]string{
			400: "Geçersiz istek. Lütfen gönderilen alanları kontrol edin.",
			401: "Yetkilendirme gerekli. Lütfen giriş yapın.",
			403: "Bu işlem için yetkiniz bulunmuyor.",
			404: "Aradığınız kayıt bulunamadı.",
			405: "Bu endpoint bu HTTP metodunu desteklemiyor.",
			409: "Portföyün şu anki durumu bu işleme izin vermiyor.",
			413: "İstek gövdesi çok büyük.",
			429: "Çok fazla istek. Lütfen daha sonra tekrar deneyin.",
			500: "Sunucu hatası. Bu durum teknik ekibimize bildirildi.",
			503: "Servis geçici olarak kullanılamıyor. Lütfen daha sonra deneyin.",
		},
		IncludeHeaders:  []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		EnablePanicLogs: true,
		MaxErrorLength:  500,
	}
}

// DevelopmentErrorConfig stack trace ve ham hata mesajları açık
func DevelopmentErrorConfig() *ErrorConfig {
	config := DefaultErrorConfig()
	config.ShowStackTrace = true
	config.MaxErrorLength = 2000
	return config
}

// ProductionErrorConfig kısa ve genel mesajlar
func ProductionErrorConfig() *ErrorConfig {
	config := DefaultErrorConfig()
	config.CustomErrorMap[500] = "Bir hata oluştu. Teknik ekibimiz bilgilendirildi."
	config.MaxErrorLength = 200
	return config
}

// ConfigFor APP_ENV değerine göre ayarları seçer
func ConfigFor(env string) *ErrorConfig {
	switch env {
	case "development":
		return DevelopmentErrorConfig()
	case "production":
		return ProductionErrorConfig()
	default:
		return DefaultErrorConfig()
	}
}

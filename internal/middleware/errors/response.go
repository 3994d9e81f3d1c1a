package errors

import "time"

// ErrorResponse tüm hata yanıtlarının gövdesi
type ErrorResponse struct {
	Success   bool          `json:"success"`
	Error     string        `json:"error"`
	Code      int           `json:"code"`
	Timestamp string        `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
	Details   *ErrorDetails `json:"details,omitempty"`
	Stack     string        `json:"stack,omitempty"` // sadece development
}

// ErrorDetails hatanın oluştuğu istek
type ErrorDetails struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// PanicInfo yakalanan panic'in log kaydı
type PanicInfo struct {
	Value     interface{}
	Stack     string
	RequestID string
	Method    string
	Path      string
	ClientIP  string
	UserID    int64 // kimliği doğrulanmamış istekte 0
	Timestamp time.Time
}

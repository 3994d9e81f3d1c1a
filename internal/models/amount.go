package models

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexibleDecimal hem sayı hem string kabul eder, "1,5" gibi virgüllü girişleri de normalize eder
type FlexibleDecimal struct {
	decimal.Decimal
}

// UnmarshalJSON json.Unmarshaler implementasyonu
func (f *FlexibleDecimal) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	raw = strings.TrimSpace(strings.Replace(raw, ",", ".", 1))
	if raw == "" || raw == "null" {
		f.Decimal = decimal.Zero
		return nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("geçersiz tutar: %q", raw)
	}
	f.Decimal = d
	return nil
}

package models

import "errors"

// ErrRecordNotFound repository'lerin kayıt bulunamadığında döndüğü hata
var ErrRecordNotFound = errors.New("kayıt bulunamadı")

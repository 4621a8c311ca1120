package models

import (
	"encoding/hex"
	"errors"
)

// SeedHexLength: 32 байта секрета в hex.
const SeedHexLength = 64

var ErrInvalidSeedFormat = errors.New("seed must be 64 lowercase hex characters")

// Seed: общий секрет для TOTP, хранится как строка из 64 символов [0-9a-f].
type Seed string

// ParseSeed проверяет формат без какой-либо нормализации:
// верхний регистр, пробелы и неверная длина отклоняются.
func ParseSeed(s string) (Seed, error) {
	if len(s) != SeedHexLength {
		return "", ErrInvalidSeedFormat
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", ErrInvalidSeedFormat
		}
	}
	return Seed(s), nil
}

func (s Seed) Bytes() ([]byte, error) {
	return hex.DecodeString(string(s))
}

func (s Seed) String() string { return string(s) }

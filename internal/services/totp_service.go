package services

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creachadair/otp"
	"github.com/creachadair/otp/otpauth"

	"twofa/internal/models"
	"twofa/internal/repositories"
)

// Параметры по умолчанию Google Authenticator: их менять нельзя,
// иначе уже настроенные приложения перестанут совпадать.
const (
	CodeDigits      = 6
	TimeStepSeconds = 30
	VerifyWindow    = 1 // ±1 шаг на рассинхрон часов
)

type TOTPService interface {
	Generate() (*models.TOTPCode, error)
	Verify(code string) (bool, error)
	ProvisioningURL(issuer, account string) (string, error)
}

type TOTPOption func(*totpService)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) TOTPOption {
	return func(s *totpService) { s.now = now }
}

type totpService struct {
	repo repositories.SeedRepository
	now  func() time.Time
}

func NewTOTPService(repo repositories.SeedRepository, opts ...TOTPOption) TOTPService {
	s := &totpService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *totpService) Generate() (*models.TOTPCode, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}

	unix := s.now().Unix()
	return &models.TOTPCode{
		Code:     cfg.HOTP(timeStep(unix)),
		ValidFor: TimeStepSeconds - int(unix%TimeStepSeconds),
	}, nil
}

// Verify: несовпадение: это нормальный false, не ошибка.
func (s *totpService) Verify(code string) (bool, error) {
	if code == "" {
		return false, ErrMissingCode
	}

	cfg, err := s.loadConfig()
	if err != nil {
		return false, err
	}

	current := timeStep(s.now().Unix())
	for _, step := range window(current) {
		want := cfg.HOTP(step)
		if subtle.ConstantTimeCompare([]byte(code), []byte(want)) == 1 {
			return true, nil
		}
	}
	return false, nil
}

// ProvisioningURL: otpauth:// ссылка для приложения-аутентификатора
// с тем же секретом, что использует Generate.
func (s *totpService) ProvisioningURL(issuer, account string) (string, error) {
	key, err := s.loadKey()
	if err != nil {
		return "", err
	}
	u := &otpauth.URL{
		Type:      "totp",
		Issuer:    issuer,
		Account:   account,
		Algorithm: "SHA1",
		Digits:    CodeDigits,
		Period:    TimeStepSeconds,
	}
	u.SetSecret(key)
	return u.String(), nil
}

// loadConfig: hex из файла -> байты -> base32 -> ключ otp.
// base32 здесь только перекодировка того же секрета.
func (s *totpService) loadConfig() (otp.Config, error) {
	key, err := s.loadKey()
	if err != nil {
		return otp.Config{}, err
	}

	cfg := otp.Config{Hash: sha1.New, Digits: CodeDigits}
	if err := cfg.ParseKey(base32.StdEncoding.EncodeToString(key)); err != nil {
		return otp.Config{}, fmt.Errorf("%w: %v", ErrSeedCorrupt, err)
	}
	return cfg, nil
}

// loadKey читает seed и снимает только окружающие пробелы.
func (s *totpService) loadKey() ([]byte, error) {
	raw, err := s.repo.Get()
	if err != nil {
		if errors.Is(err, repositories.ErrSeedNotFound) {
			return nil, ErrSeedNotReady
		}
		return nil, fmt.Errorf("%w: %v", ErrSeedStorage, err)
	}

	hexSeed := strings.TrimSpace(raw)
	if hexSeed == "" {
		return nil, fmt.Errorf("%w: empty seed", ErrSeedCorrupt)
	}
	key, err := hex.DecodeString(hexSeed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeedCorrupt, err)
	}
	return key, nil
}

// window: шаги t-1, t, t+1 (без ухода ниже нуля).
func window(current uint64) []uint64 {
	steps := make([]uint64, 0, 2*VerifyWindow+1)
	for i := uint64(VerifyWindow); i > 0; i-- {
		if current >= i {
			steps = append(steps, current-i)
		}
	}
	steps = append(steps, current)
	for i := uint64(1); i <= VerifyWindow; i++ {
		steps = append(steps, current+i)
	}
	return steps
}

func timeStep(unix int64) uint64 {
	if unix < 0 {
		return 0
	}
	return uint64(unix) / TimeStepSeconds
}

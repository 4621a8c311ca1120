package services

import (
	"fmt"
	"unicode/utf8"

	"twofa/internal/models"
	"twofa/internal/repositories"
	"twofa/internal/utils"
)

type SeedService interface {
	DecryptAndStore(encryptedSeed string) error
	Ready() bool
}

type seedService struct {
	repo           repositories.SeedRepository
	privateKeyPath string
}

func NewSeedService(repo repositories.SeedRepository, privateKeyPath string) SeedService {
	return &seedService{
		repo:           repo,
		privateKeyPath: privateKeyPath,
	}
}

// DecryptAndStore расшифровывает seed и сохраняет его. Если что-то пошло не так
// до записи, ранее сохранённый seed остаётся как был.
func (s *seedService) DecryptAndStore(encryptedSeed string) error {
	// ключ читаем на каждый вызов: замена файла подхватывается без рестарта
	key, err := utils.LoadPrivateKey(s.privateKeyPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPrivateKey, err)
	}

	ciphertext, err := utils.DecodeBase64(encryptedSeed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCiphertextEncoding, err)
	}

	plain, err := utils.DecryptOAEP(key, ciphertext)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecryption, err)
	}

	if !utf8.Valid(plain) {
		return ErrSeedEncoding
	}

	seed, err := models.ParseSeed(string(plain))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	if err := s.repo.Save(seed.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrSeedStorage, err)
	}
	return nil
}

func (s *seedService) Ready() bool {
	return s.repo.Exists()
}

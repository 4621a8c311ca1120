package services

import "errors"

// Виды ошибок. Наружу они схлопываются в одно сообщение на эндпоинт,
// но внутри (логи, метрики, тесты) различаются через errors.Is.
var (
	// расшифровка seed
	ErrPrivateKey         = errors.New("private key unavailable")
	ErrCiphertextEncoding = errors.New("encrypted seed is not valid base64")
	ErrDecryption         = errors.New("seed decryption failed")
	ErrSeedEncoding       = errors.New("decrypted seed is not valid utf-8")
	ErrInvalidSeed        = errors.New("decrypted seed has invalid format")

	// хранилище
	ErrSeedStorage = errors.New("seed storage failure")

	// генерация/проверка кода
	ErrSeedNotReady = errors.New("seed not decrypted yet")
	ErrSeedCorrupt  = errors.New("stored seed is corrupt")
	ErrMissingCode  = errors.New("missing code")
)

package services

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"twofa/internal/repositories"
	"twofa/internal/utils"
)

// общий ключ на пакет: генерация RSA в каждом тесте слишком медленная
var (
	testKeyOnce sync.Once
	testKeyPEM  []byte
	testKeyErr  error
)

func writeTestKey(t *testing.T) (string, string) {
	t.Helper()

	testKeyOnce.Do(func() {
		key, err := utils.GenerateKeyPair(2048)
		if err != nil {
			testKeyErr = err
			return
		}
		testKeyPEM, testKeyErr = utils.EncodePrivateKeyPEM(key)
	})
	require.NoError(t, testKeyErr)

	dir := t.TempDir()
	keyPath := filepath.Join(dir, "private.pem")
	require.NoError(t, os.WriteFile(keyPath, testKeyPEM, 0o600))
	return keyPath, filepath.Join(dir, "data")
}

func encryptFor(t *testing.T, keyPath, plain string) string {
	t.Helper()
	key, err := utils.LoadPrivateKey(keyPath)
	require.NoError(t, err)
	out, err := utils.EncryptSeed(&key.PublicKey, plain)
	require.NoError(t, err)
	return out
}

// brokenRepo: хранилище, которое всегда падает.
type brokenRepo struct{ err error }

func (r brokenRepo) Get() (string, error) { return "", r.err }
func (r brokenRepo) Save(string) error    { return r.err }
func (r brokenRepo) Exists() bool         { return false }

var errDisk = errors.New("disk full")

var _ repositories.SeedRepository = brokenRepo{}

package utils

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadPrivateKey_Formats(t *testing.T) {
	t.Parallel()

	key, err := GenerateKeyPair(2048)
	require.NoError(t, err)

	pkcs8, err := EncodePrivateKeyPEM(key)
	require.NoError(t, err)
	pkcs1 := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	for name, data := range map[string][]byte{"pkcs8": pkcs8, "pkcs1": pkcs1} {
		loaded, err := LoadPrivateKey(writeFile(t, name+".pem", data))
		require.NoError(t, err, name)
		assert.True(t, key.Equal(loaded), name)
	}
}

func TestLoadPrivateKey_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadPrivateKey(filepath.Join(t.TempDir(), "missing.pem"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadPrivateKey(writeFile(t, "garbage.pem", []byte("not a key")))
	assert.Error(t, err)

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(ecKey)
	require.NoError(t, err)
	_, err = LoadPrivateKey(writeFile(t, "ec.pem", pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})))
	assert.ErrorIs(t, err, ErrNotRSAKey)
}

func TestEncryptDecryptSeed(t *testing.T) {
	t.Parallel()

	key, err := GenerateKeyPair(2048)
	require.NoError(t, err)

	pubPEM, err := EncodePublicKeyPEM(&key.PublicKey)
	require.NoError(t, err)
	pub, err := LoadPublicKey(writeFile(t, "pub.pem", pubPEM))
	require.NoError(t, err)

	seed := strings.Repeat("aa", 32)
	encoded, err := EncryptSeed(pub, seed)
	require.NoError(t, err)

	// переносы строк внутри base64 допустимы
	wrapped := encoded[:40] + "\n" + encoded[40:]
	ct, err := DecodeBase64(wrapped)
	require.NoError(t, err)

	plain, err := DecryptOAEP(key, ct)
	require.NoError(t, err)
	assert.Equal(t, seed, string(plain))
}

func TestLoadPublicKey_PKCS1(t *testing.T) {
	t.Parallel()

	key, err := GenerateKeyPair(2048)
	require.NoError(t, err)
	data := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey)})

	pub, err := LoadPublicKey(writeFile(t, "pub1.pem", data))
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(pub))

	_, err = LoadPublicKey(writeFile(t, "empty.pem", []byte("nothing")))
	assert.ErrorIs(t, err, ErrInvalidPEM)
}

func TestNewSeed(t *testing.T) {
	t.Parallel()

	s, err := NewSeed(0)
	require.NoError(t, err)
	assert.Len(t, s, 64)
	assert.Regexp(t, `^[0-9a-f]{64}$`, s)

	other, err := NewSeed(32)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)
}

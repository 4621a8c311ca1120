package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twofa/internal/repositories"
	"twofa/internal/services"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestKeygenEncryptDecryptEnroll(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "student_private.pem")
	pub := filepath.Join(dir, "student_public.pem")
	dataDir := filepath.Join(dir, "data")

	_, _, err := run(t, "keygen", "--private", priv, "--public", pub, "--bits", "2048")
	require.NoError(t, err)

	_, _, err = run(t, "keygen", "--private", priv, "--public", pub, "--bits", "2048")
	assert.ErrorContains(t, err, "already exists")

	seed := strings.Repeat("aa", 32)
	out, _, err := run(t, "encrypt-seed", "--public", pub, "--seed", seed)
	require.NoError(t, err)
	ciphertext := strings.TrimSpace(out)

	repo := repositories.NewFileSeedRepository(dataDir, "seed.txt")
	require.NoError(t, services.NewSeedService(repo, priv).DecryptAndStore(ciphertext))

	cfgPath := writeConfig(t, dir, fmt.Sprintf("storage:\n  data_dir: %s\n", dataDir))
	out, _, err = run(t, "--config", cfgPath, "enroll", "--issuer", "twofa", "--account", "me", "--no-qr")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "otpauth://totp/"))
	assert.Contains(t, out, "secret=VKVKVKVK")

	out, _, err = run(t, "--config", cfgPath, "enroll")
	require.NoError(t, err)
	assert.Greater(t, strings.Count(out, "\n"), 10)
}

func TestEncryptSeed_RandomAndInvalid(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "k.pem")
	pub := filepath.Join(dir, "k.pub")
	_, _, err := run(t, "keygen", "--private", priv, "--public", pub, "--bits", "2048")
	require.NoError(t, err)

	out, errOut, err := run(t, "encrypt-seed", "--public", pub)
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
	assert.Regexp(t, `^seed: [0-9a-f]{64}\n$`, errOut)

	_, _, err = run(t, "encrypt-seed", "--public", pub, "--seed", strings.Repeat("A", 64))
	assert.Error(t, err)
}

func TestEnroll_NoSeed(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, fmt.Sprintf("storage:\n  data_dir: %s\n", filepath.Join(dir, "empty")))

	_, _, err := run(t, "--config", cfgPath, "enroll", "--no-qr")
	assert.ErrorContains(t, err, "no seed stored")
}

func TestIssueToken(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, "--config", writeConfig(t, dir, ""), "issue-token")
	assert.Error(t, err)

	cfgPath := writeConfig(t, dir, "auth:\n  jwt_secret: abc\n")
	out, _, err := run(t, "--config", cfgPath, "issue-token", "--ttl", "5m")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."))
}

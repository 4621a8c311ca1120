package repositories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var ErrSeedNotFound = errors.New("seed not found")

type SeedRepository interface {
	Get() (string, error)
	Save(seed string) error
	Exists() bool
}

// FileSeedRepository хранит seed одним plaintext-файлом.
// Запись идёт через временный файл + rename, поэтому читатель видит
// либо старое, либо новое значение целиком.
type FileSeedRepository struct {
	mu   sync.RWMutex
	dir  string
	path string
}

func NewFileSeedRepository(dataDir, fileName string) *FileSeedRepository {
	return &FileSeedRepository{
		dir:  dataDir,
		path: filepath.Join(dataDir, fileName),
	}
}

func (r *FileSeedRepository) Path() string { return r.path }

// Get возвращает содержимое файла как есть (без trim).
func (r *FileSeedRepository) Get() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrSeedNotFound
		}
		return "", fmt.Errorf("read seed: %w", err)
	}
	return string(data), nil
}

func (r *FileSeedRepository) Exists() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, err := os.Stat(r.path)
	return err == nil
}

// Save атомарно заменяет seed. При ошибке прежний файл не трогается.
func (r *FileSeedRepository) Save(seed string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, ".seed-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp seed: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(seed); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp seed: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp seed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp seed: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod temp seed: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace seed: %w", err)
	}
	committed = true
	return nil
}

package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// LocalStorage manages the on-disk home directories backing user accounts.
// Directories are sharded by the first two characters of the user uuid to
// keep any single directory from growing unbounded.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) UserRootPath(userUUID string) string {
	if len(userUUID) < 2 {
		return filepath.Join(ls.basePath, userUUID)
	}
	return filepath.Join(ls.basePath, userUUID[:2], userUUID)
}

// EnsureUserRoot creates the user's home directory if it does not exist yet.
// Safe to call again for an already-provisioned account.
func (ls *LocalStorage) EnsureUserRoot(userUUID string) error {
	if userUUID == "" {
		return fmt.Errorf("user uuid is required")
	}
	return os.MkdirAll(ls.UserRootPath(userUUID), os.ModePerm)
}

func (ls *LocalStorage) RemoveUserRoot(userUUID string) error {
	if userUUID == "" {
		return fmt.Errorf("user uuid is required")
	}
	return os.RemoveAll(ls.UserRootPath(userUUID))
}

package repository

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// CopyOnWriteTx stages changes to the store directory in a full copy and
// swaps the copy into place on commit. Readers never observe a half-written
// store.
type CopyOnWriteTx struct {
	baseDir   string // Store directory, e.g. .envirocheck/
	tempDir   string // .envirocheck.tmp.<nanos>/
	backupDir string // .envirocheck.backup.<nanos>/
	committed bool
}

// NewCopyOnWriteTx creates a transaction over baseDir.
func NewCopyOnWriteTx(baseDir string) *CopyOnWriteTx {
	stamp := time.Now().UnixNano()
	return &CopyOnWriteTx{
		baseDir:   baseDir,
		tempDir:   fmt.Sprintf("%s.tmp.%d", baseDir, stamp),
		backupDir: fmt.Sprintf("%s.backup.%d", baseDir, stamp),
	}
}

// Begin copies the store into the staging directory. A missing store starts
// from an empty staging directory.
func (tx *CopyOnWriteTx) Begin() error {
	if _, err := os.Stat(tx.baseDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(tx.tempDir, 0755); err != nil {
				return fmt.Errorf("create staging directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("stat store directory: %w", err)
	}

	if err := copyDirRecursive(tx.baseDir, tx.tempDir); err != nil {
		_ = os.RemoveAll(tx.tempDir)
		return fmt.Errorf("copy store directory: %w", err)
	}

	return nil
}

// WriteFile writes a file inside the staging directory.
func (tx *CopyOnWriteTx) WriteFile(relativePath string, content []byte) error {
	if tx.committed {
		return fmt.Errorf("transaction already committed")
	}

	fullPath := filepath.Join(tx.tempDir, relativePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// ReadFile reads a file from the staging directory. A missing file yields an
// error wrapping os.ErrNotExist.
func (tx *CopyOnWriteTx) ReadFile(relativePath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(tx.tempDir, relativePath))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// Commit swaps the staging directory into place. On a failed swap the
// previous store is restored.
func (tx *CopyOnWriteTx) Commit() error {
	if tx.committed {
		return fmt.Errorf("transaction already committed")
	}

	baseExists := true
	if _, err := os.Stat(tx.baseDir); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat store directory: %w", err)
		}
		baseExists = false
	}

	if !baseExists {
		if err := os.Rename(tx.tempDir, tx.baseDir); err != nil {
			return fmt.Errorf("commit new store: %w", err)
		}
		tx.committed = true
		return nil
	}

	if err := os.Rename(tx.baseDir, tx.backupDir); err != nil {
		return fmt.Errorf("back up store: %w", err)
	}

	if err := os.Rename(tx.tempDir, tx.baseDir); err != nil {
		if rollbackErr := os.Rename(tx.backupDir, tx.baseDir); rollbackErr != nil {
			return fmt.Errorf("commit failed and restore failed: commit error: %w, restore error: %v", err, rollbackErr)
		}
		return fmt.Errorf("commit store (restored): %w", err)
	}

	// The swap already succeeded; a leftover backup is harmless.
	_ = os.RemoveAll(tx.backupDir)

	tx.committed = true
	return nil
}

// Rollback discards the staging directory.
func (tx *CopyOnWriteTx) Rollback() error {
	if tx.committed {
		return fmt.Errorf("cannot rollback committed transaction")
	}
	if err := os.RemoveAll(tx.tempDir); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// TempDir returns the staging directory path.
func (tx *CopyOnWriteTx) TempDir() string {
	return tx.tempDir
}

// copyDirRecursive copies a directory tree file by file. Hard links would
// share inodes with the live store, so writes to the staging copy would leak
// into it before commit.
func copyDirRecursive(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDirRecursive(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy contents: %w", err)
	}

	return out.Close()
}

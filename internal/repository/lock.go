package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"
)

// staleLockAge is how long a lock may be held before another process may
// take it over regardless of the holder's liveness.
const staleLockAge = 30 * time.Minute

// ErrLocked is returned when another live process holds the store lock.
var ErrLocked = errors.New("standards store locked")

// LockInfo is the metadata written into the lock file.
type LockInfo struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	Holder    string    `json:"holder"` // Command holding the lock, e.g. "standards import"
	Timestamp time.Time `json:"timestamp"`
}

// FileLock is an exclusive advisory lock on the regulation store.
type FileLock struct {
	path   string
	holder string
	file   *os.File
	logger *slog.Logger
}

// NewFileLock creates a lock at path. holder names the operation taking it.
func NewFileLock(path, holder string) *FileLock {
	return &FileLock{path: path, holder: holder, logger: slog.Default()}
}

// Acquire takes the lock without blocking. A lock whose holder has exited or
// which is older than staleLockAge is taken over.
func (l *FileLock) Acquire() error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		if closeErr := file.Close(); closeErr != nil {
			l.logger.Warn("close lock file", "error", closeErr)
		}

		existing, readErr := l.readLockInfo()
		if readErr == nil && isStale(existing) {
			l.logger.Warn("taking over stale lock", "pid", existing.PID, "holder", existing.Holder)
			_ = os.Remove(l.path)
			return l.Acquire()
		}
		if readErr == nil {
			age := time.Since(existing.Timestamp).Round(time.Second)
			return fmt.Errorf("%w by %s (PID %d, %v ago)", ErrLocked, existing.Holder, existing.PID, age)
		}

		return fmt.Errorf("%w: %v", ErrLocked, err)
	}

	l.file = file

	hostname, _ := os.Hostname()
	data, err := json.MarshalIndent(LockInfo{
		PID:       os.Getpid(),
		Hostname:  hostname,
		Holder:    l.holder,
		Timestamp: time.Now(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lock metadata: %w", err)
	}

	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := file.WriteAt(data, 0); err != nil {
		return fmt.Errorf("write lock metadata: %w", err)
	}

	return nil
}

// Release drops the lock and removes the lock file.
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.logger.Warn("release flock", "error", err)
	}
	if err := l.file.Close(); err != nil {
		l.logger.Warn("close lock file", "error", err)
	}
	l.file = nil

	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

func (l *FileLock) readLockInfo() (*LockInfo, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}

	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func isStale(info *LockInfo) bool {
	process, err := os.FindProcess(info.PID)
	if err != nil {
		return true
	}
	// FindProcess always succeeds on Unix; signal 0 probes liveness.
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return true
	}
	return time.Since(info.Timestamp) > staleLockAge
}

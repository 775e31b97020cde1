// Package tokens owns the persisted credential pair. Nothing else in habitlog
// reads or writes the underlying keyring entries or database rows directly.
package tokens

import (
	"fmt"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
)

// Store persists the access/refresh credential pair across process runs.
// Absent tokens are reported as empty strings, not errors.
// Implementations must be safe for concurrent use.
type Store interface {
	Get() (models.TokenPair, error)
	Set(models.TokenPair) error
	Clear() error
}

// AccessToken returns the stored access token, or "" when absent or unreadable.
func AccessToken(s Store) string {
	pair, err := s.Get()
	if err != nil {
		logger.Warn("failed to read access token", "error", err)
		return ""
	}
	return pair.Access
}

// RefreshToken returns the stored refresh token, or "" when absent or unreadable.
func RefreshToken(s Store) string {
	pair, err := s.Get()
	if err != nil {
		logger.Warn("failed to read refresh token", "error", err)
		return ""
	}
	return pair.Refresh
}

// Open returns the store for the named backend. The sqlite store is only
// needed by the file backend and may be nil otherwise.
func Open(backend string, db *storage.Store) (Store, error) {
	switch backend {
	case constants.TokenBackendKeyring, "":
		return NewKeyringStore(constants.AppName), nil
	case constants.TokenBackendFile:
		if db == nil {
			return nil, fmt.Errorf("token backend %q needs the local database", backend)
		}
		return NewSQLiteStore(db), nil
	case constants.TokenBackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown token backend %q (expected keyring, file or memory)", backend)
	}
}

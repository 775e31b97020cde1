package tokens

import (
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
)

// SQLiteStore keeps the pair in the local database, for systems without a keyring.
type SQLiteStore struct {
	db *storage.Store
}

func NewSQLiteStore(db *storage.Store) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get() (models.TokenPair, error) {
	access, err := s.db.GetCredential(constants.AccessTokenKey)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := s.db.GetCredential(constants.RefreshTokenKey)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *SQLiteStore) Set(pair models.TokenPair) error {
	return s.db.SetCredentials(map[string]string{
		constants.AccessTokenKey:  pair.Access,
		constants.RefreshTokenKey: pair.Refresh,
	})
}

func (s *SQLiteStore) Clear() error {
	return s.db.ClearCredentials()
}

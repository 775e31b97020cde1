package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetCredential returns the stored value for key, or "" when absent.
func (s *Store) GetCredential(key string) (string, error) {
	return s.get("credentials", key)
}

// SetCredentials writes all pairs in one transaction.
func (s *Store) SetCredentials(values map[string]string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO credentials (key, value, updated_at) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range values {
		if _, err := stmt.Exec(k, v, now); err != nil {
			return fmt.Errorf("failed to store credential %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// ClearCredentials removes every stored credential.
func (s *Store) ClearCredentials() error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec("DELETE FROM credentials")
	return err
}

// GetSetting returns the stored setting, or "" when absent.
func (s *Store) GetSetting(key string) (string, error) {
	return s.get("settings", key)
}

func (s *Store) SetSetting(key, value string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	return err
}

func (s *Store) DeleteSetting(key string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// AllSettings returns every stored setting.
func (s *Store) AllSettings() (map[string]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// table is one of the two fixed table names above, never user input
func (s *Store) get(table, key string) (string, error) {
	db, err := s.conn()
	if err != nil {
		return "", err
	}
	var value string
	err = db.QueryRow("SELECT value FROM "+table+" WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s: %w", table, key, err)
	}
	return value, nil
}

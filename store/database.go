// Package store loads the photo, theme, and settings document and persists saved settings
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNoSettings is returned when no settings have been saved yet.
var ErrNoSettings = errors.New("no saved settings")

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{db: db}

	if err := database.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return database, nil
}

func (d *Database) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS app_settings (
		singleton INTEGER NOT NULL DEFAULT 1 CHECK (singleton = 1),
		theme_id       TEXT    NOT NULL,
		slide_interval INTEGER NOT NULL CHECK (slide_interval > 0),
		play_mode      TEXT    NOT NULL,
		PRIMARY KEY (singleton)
	);
	`
	_, err := d.db.Exec(query)
	return err
}

func (d *Database) GetSettings() (*Settings, error) {
	const query = `
		SELECT theme_id,
		       slide_interval,
		       play_mode
		FROM app_settings
		WHERE singleton = 1
	`

	var s Settings
	err := d.db.QueryRow(query).Scan(&s.ThemeID, &s.SlideInterval, &s.PlayMode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSettings
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

func (d *Database) UpsertSettings(s *Settings) error {
	const stmt = `
		INSERT INTO app_settings (
			singleton,
			theme_id,
			slide_interval,
			play_mode
		) VALUES (1, ?, ?, ?)
		ON CONFLICT(singleton) DO UPDATE SET
			theme_id       = excluded.theme_id,
			slide_interval = excluded.slide_interval,
			play_mode      = excluded.play_mode
	`

	if _, err := d.db.Exec(stmt, s.ThemeID, s.SlideInterval, s.PlayMode); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

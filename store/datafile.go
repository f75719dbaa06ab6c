package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

var ErrPhotoNotFound = errors.New("photo not found")

// DataFile reads the photo/theme/settings document from disk. Every call
// re-reads the file so edits show up without a restart.
type DataFile struct {
	path string
}

func NewDataFile(path string) *DataFile {
	return &DataFile{path: path}
}

func (d *DataFile) Path() string {
	return d.path
}

func (d *DataFile) Load() (*Document, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Error("data file not found, using empty document", "path", d.path)
		return &Document{
			Photos:   []Photo{},
			Themes:   []Theme{},
			Settings: DefaultSettings(),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", d.path, err)
	}
	if doc.Photos == nil {
		doc.Photos = []Photo{}
	}
	if doc.Themes == nil {
		doc.Themes = []Theme{}
	}
	return &doc, nil
}

func (d *DataFile) GetPhotos() ([]Photo, error) {
	doc, err := d.Load()
	if err != nil {
		return nil, err
	}
	return doc.Photos, nil
}

func (d *DataFile) GetPhoto(id int) (*Photo, error) {
	doc, err := d.Load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Photos {
		if doc.Photos[i].ID == id {
			return &doc.Photos[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrPhotoNotFound, id)
}

func (d *DataFile) GetThemes() ([]Theme, error) {
	doc, err := d.Load()
	if err != nil {
		return nil, err
	}
	return doc.Themes, nil
}

func (d *DataFile) GetSettings() (*Settings, error) {
	doc, err := d.Load()
	if err != nil {
		return nil, err
	}
	return &doc.Settings, nil
}

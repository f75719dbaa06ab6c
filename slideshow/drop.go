package slideshow

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/aouyang1/photoslideshow/store"
)

var (
	ErrNoFiles  = errors.New("no files dropped")
	ErrNotImage = errors.New("dropped file is not an image")
)

// DroppedFile is one file from a drag and drop. ContentType may be empty, in
// which case it is sniffed from Data.
type DroppedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f DroppedFile) mediaType() string {
	if f.ContentType != "" {
		return f.ContentType
	}
	return mimetype.Detect(f.Data).String()
}

// Drop adds the first dropped file to the show as a data URI photo. Only
// image files are accepted; anything else leaves the collection unchanged.
func (c *Controller) Drop(files []DroppedFile) (store.Photo, error) {
	if len(files) == 0 {
		return store.Photo{}, ErrNoFiles
	}
	if len(files) > 1 {
		slog.Debug("ignoring extra dropped files", "count", len(files)-1)
	}

	f := files[0]
	mediaType := f.mediaType()
	if !strings.HasPrefix(mediaType, "image/") {
		return store.Photo{}, fmt.Errorf("%w: %s (%s)", ErrNotImage, f.Name, mediaType)
	}

	// strip parameters such as "; charset=binary" the sniffer may add
	mediaType, _, _ = strings.Cut(mediaType, ";")
	p := store.Photo{
		ImageURL: "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(f.Data),
		Caption:  f.Name,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addPhotoLocked(p), nil
}

package slideshow

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/aouyang1/photoslideshow/store"
)

// PhotoGetter looks up a single photo by id.
type PhotoGetter interface {
	GetPhoto(ctx context.Context, id int) (*store.Photo, error)
}

type Detail struct {
	Photo    *store.Photo
	FileName string
	NotFound bool
}

// LoadDetail fetches the photo for the detail view. Any failure renders as
// not found; there is no retry.
func LoadDetail(ctx context.Context, getter PhotoGetter, id int) Detail {
	photo, err := getter.GetPhoto(ctx, id)
	if err != nil {
		slog.Error("failed to load photo detail", "id", id, "error", err)
		return Detail{NotFound: true}
	}
	return Detail{Photo: photo, FileName: fileName(photo.ImageURL)}
}

func fileName(imageURL string) string {
	if imageURL == "" || strings.HasPrefix(imageURL, "data:") {
		return ""
	}
	imageURL, _, _ = strings.Cut(imageURL, "?")
	return path.Base(imageURL)
}

// ClosesDetail reports whether key dismisses the detail view.
func ClosesDetail(key string) bool {
	return key == "Escape"
}

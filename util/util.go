// Package util is a set of utility variables or methods
package util

import (
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
)

var SupportedExt = mapset.NewSet(
	".jpeg", ".jpg", ".JPEG", ".JPG",
	".png", ".PNG",
	".gif", ".GIF",
	".webp", ".WEBP",
)

// IsSupportedImage reports whether name has an image extension we serve.
func IsSupportedImage(name string) bool {
	return SupportedExt.Contains(filepath.Ext(name))
}

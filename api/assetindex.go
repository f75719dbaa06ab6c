package api

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/aouyang1/photoslideshow/util"
	mapset "github.com/deckarep/golang-set/v2"
)

const assetScanInterval = 10 * time.Minute

// AssetIndex tracks the image files available under the assets directory.
type AssetIndex struct {
	path string

	mu           sync.RWMutex
	trackedFiles mapset.Set[string]
}

func NewAssetIndex(path string) *AssetIndex {
	a := &AssetIndex{
		path:         path,
		trackedFiles: mapset.NewSet[string](),
	}
	if _, err := a.Rescan(); err != nil {
		slog.Warn("error reading assets directory on initialization", "path", path, "error", err)
	}
	return a
}

func (a *AssetIndex) Path() string {
	return a.path
}

func (a *AssetIndex) getCurrentFiles() (mapset.Set[string], error) {
	entries, err := os.ReadDir(a.path)
	if err != nil {
		return nil, err
	}

	currentFiles := mapset.NewSet[string]()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !util.IsSupportedImage(name) {
			continue
		}
		currentFiles.Add(name)
	}
	return currentFiles, nil
}

// Rescan refreshes the tracked set and reports whether it changed.
func (a *AssetIndex) Rescan() (bool, error) {
	currentFiles, err := a.getCurrentFiles()
	if err != nil {
		return false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	added := currentFiles.Difference(a.trackedFiles)
	removed := a.trackedFiles.Difference(currentFiles)
	a.trackedFiles = currentFiles

	changed := added.Cardinality() > 0 || removed.Cardinality() > 0
	if changed {
		slog.Info("assets changed", "added", added.Cardinality(), "removed", removed.Cardinality(), "total", currentFiles.Cardinality())
	}
	return changed, nil
}

func (a *AssetIndex) Contains(name string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.trackedFiles.Contains(name)
}

// Files returns a snapshot of the tracked file names.
func (a *AssetIndex) Files() mapset.Set[string] {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.trackedFiles.Clone()
}

// Run rescans on a ticker and whenever updated fires, until ctx is done.
func (a *AssetIndex) Run(ctx context.Context, updated <-chan bool) {
	ticker := time.NewTicker(assetScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-updated:
		}
		if _, err := a.Rescan(); err != nil {
			slog.Warn("error reading assets directory", "path", a.path, "error", err)
		}
	}
}

// assetPath resolves a slash separated image path inside the assets
// directory. Files not yet picked up by a rescan are checked on disk.
func (a *AssetIndex) assetPath(name string) (string, bool) {
	if name == "" || path.Clean("/" + name)[1:] != name || !util.IsSupportedImage(name) {
		return "", false
	}

	fullPath := filepath.Join(a.path, filepath.FromSlash(name))
	if a.Contains(name) {
		return fullPath, true
	}

	info, err := os.Stat(fullPath)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return fullPath, true
}

package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/photoslideshow/api"
	"github.com/aouyang1/photoslideshow/api/client"
	"github.com/aouyang1/photoslideshow/slideshow"
	"github.com/aouyang1/photoslideshow/store"
)

const testDocument = `{
  "photos": [
    {"id": 1, "imageUrl": "/assets/one.jpg", "caption": "one"},
    {"id": 2, "imageUrl": "/assets/two.jpg", "caption": "two"}
  ],
  "themes": [
    {"id": "A", "name": "Basic", "description": "plain"},
    {"id": "B", "name": "Fade", "description": "fade in and out"}
  ],
  "settings": {"themeId": "A", "slideInterval": 2000, "playMode": "auto"}
}`

func newTestPlayer(t *testing.T) *player {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(testDocument), 0o644))

	ws := api.NewWebServer(store.NewDataFile(dataPath), nil, api.NewAssetIndex(dir), filepath.Join(dir, "openapi.json"), []string{"*"})
	srv := httptest.NewServer(ws.Handler())
	t.Cleanup(srv.Close)

	pc := client.NewPhotoClient(srv.URL, time.Second)
	session, err := pc.LoadSession(context.Background())
	require.NoError(t, err)

	controller := slideshow.NewController(session.Photos, session.Settings)
	t.Cleanup(controller.Stop)
	return &player{
		client:     pc,
		controller: controller,
		panel:      slideshow.NewPanel(pc, controller, session.Themes, session.Settings),
	}
}

func TestPlayerNavigation(t *testing.T) {
	p := newTestPlayer(t)
	ctx := context.Background()

	assert.False(t, p.handle(ctx, "right"))
	assert.Equal(t, 2, p.controller.State().Photo.ID)

	assert.False(t, p.handle(ctx, "ArrowRight"))
	assert.Equal(t, 1, p.controller.State().Photo.ID)

	assert.False(t, p.handle(ctx, "left"))
	assert.Equal(t, 2, p.controller.State().Photo.ID)

	assert.False(t, p.handle(ctx, "   "))
	assert.True(t, p.handle(ctx, "quit"))
}

func TestPlayerSettings(t *testing.T) {
	p := newTestPlayer(t)
	ctx := context.Background()

	p.handle(ctx, "interval abc")
	assert.Equal(t, "2000", p.panel.IntervalText())
	assert.NotEmpty(t, p.panel.IntervalError())

	p.handle(ctx, "interval 3000")
	assert.Equal(t, 3000, p.controller.State().Settings.SlideInterval)

	p.handle(ctx, "mode random")
	assert.Equal(t, store.PlayModeRandom, p.controller.State().Settings.PlayMode)

	p.handle(ctx, "mode shuffle")
	assert.Equal(t, store.PlayModeRandom, p.controller.State().Settings.PlayMode)

	p.handle(ctx, "2")
	assert.Equal(t, "B", p.controller.State().Settings.ThemeID)
}

func TestPlayerDrop(t *testing.T) {
	p := newTestPlayer(t)
	dir := t.TempDir()

	png := filepath.Join(dir, "dot.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("not an image"), 0o644))

	p.handle(context.Background(), "drop "+txt)
	assert.Equal(t, 2, p.controller.State().Count)

	p.handle(context.Background(), "drop "+png)
	assert.Equal(t, 3, p.controller.State().Count)
}

// Package api is the main api web server
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/photoslideshow/api/models"
	"github.com/aouyang1/photoslideshow/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

const (
	bannerText       = "Photo Slideshow API Server"
	openAPIRoute     = "/api/openapi.json"
	shutdownTimeout  = 10 * time.Second
	msgInvalidJSON   = "invalid JSON format"
	msgPhotoNotFound = "photo not found"
	msgSpecNotFound  = "openapi spec file not found"
)

type WebServer struct {
	router  *gin.Engine
	handler http.Handler

	data        *store.DataFile
	db          *store.Database
	assets      *AssetIndex
	openAPIPath string
}

// NewWebServer wires the routes. db may be nil, in which case saved settings
// are validated and echoed without being stored.
func NewWebServer(data *store.DataFile, db *store.Database, assets *AssetIndex, openAPIPath string, allowedOrigins []string) *WebServer {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	ws := &WebServer{
		router:      router,
		data:        data,
		db:          db,
		assets:      assets,
		openAPIPath: openAPIPath,
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	ws.handler = corsHandler.Handler(router)

	ws.setupRoutes()

	return ws
}

func (ws *WebServer) setupRoutes() {
	ws.router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, bannerText)
	})
	ws.router.GET("/assets/*filepath", ws.handleAsset)

	api := ws.router.Group("/api")
	api.GET("/", ws.handleDocs)
	api.GET("/openapi.json", ws.handleOpenAPI)
	api.GET("/photos", ws.handleListPhotos)
	api.GET("/photos/:id", ws.handleGetPhoto)
	api.GET("/themes", ws.handleListThemes)
	api.GET("/settings", ws.handleGetSettings)
	api.POST("/settings", ws.handleSaveSettings)
}

// Handler returns the CORS-wrapped router.
func (ws *WebServer) Handler() http.Handler {
	return ws.handler
}

// Start serves on addr until ctx is canceled, then shuts down gracefully.
func (ws *WebServer) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: ws.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web server", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return nil
}

func (ws *WebServer) handleDocs(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := docsPage(openAPIRoute).Render(c.Request.Context(), c.Writer); err != nil {
		slog.Error("failed to render api docs", "error", err)
	}
}

func (ws *WebServer) handleOpenAPI(c *gin.Context) {
	data, err := os.ReadFile(ws.openAPIPath)
	if err != nil {
		slog.Error("failed to read openapi spec", "path", ws.openAPIPath, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msgSpecNotFound})
		return
	}

	var spec any
	if err := json.Unmarshal(data, &spec); err != nil {
		slog.Error("failed to parse openapi spec", "path", ws.openAPIPath, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Invalid openapi spec: %v", err)})
		return
	}

	c.JSON(http.StatusOK, spec)
}

func (ws *WebServer) handleListPhotos(c *gin.Context) {
	photos, err := ws.data.GetPhotos()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to load photos: %v", err)})
		return
	}
	c.JSON(http.StatusOK, photos)
}

func (ws *WebServer) handleGetPhoto(c *gin.Context) {
	id, ok := parsePhotoID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: msgPhotoNotFound})
		return
	}

	photo, err := ws.data.GetPhoto(id)
	if errors.Is(err, store.ErrPhotoNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: msgPhotoNotFound})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to load photo: %v", err)})
		return
	}

	c.JSON(http.StatusOK, photo)
}

// parsePhotoID reads the leading integer of s, ignoring anything after it,
// so "5abc" is photo 5.
func parsePhotoID(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	id, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return id, true
}

func (ws *WebServer) handleListThemes(c *gin.Context) {
	themes, err := ws.data.GetThemes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to load themes: %v", err)})
		return
	}
	c.JSON(http.StatusOK, themes)
}

func (ws *WebServer) currentSettings() (*store.Settings, error) {
	if ws.db != nil {
		settings, err := ws.db.GetSettings()
		if err == nil {
			return settings, nil
		}
		if !errors.Is(err, store.ErrNoSettings) {
			return nil, err
		}
	}
	return ws.data.GetSettings()
}

func (ws *WebServer) handleGetSettings(c *gin.Context) {
	settings, err := ws.currentSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get settings: %v", err)})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (ws *WebServer) handleSaveSettings(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidJSON})
		return
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidJSON})
		return
	}

	settings, msgs := validateSettings(raw)
	if len(msgs) > 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: strings.Join(msgs, ", ")})
		return
	}

	if ws.db != nil {
		if err := ws.db.UpsertSettings(settings); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to update settings: %v", err)})
			return
		}
	}

	slog.Info("settings saved", "theme_id", settings.ThemeID, "slide_interval", settings.SlideInterval, "play_mode", settings.PlayMode, "persisted", ws.db != nil)
	c.JSON(http.StatusOK, settings)
}

func (ws *WebServer) handleAsset(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")

	filePath, ok := ws.assets.assetPath(name)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Asset not found: %s", name)})
		return
	}

	c.File(filePath)
}

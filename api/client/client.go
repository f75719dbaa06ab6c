// Package client is an HTTP client for the photo slideshow api
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aouyang1/photoslideshow/api/models"
	"github.com/aouyang1/photoslideshow/store"
	"golang.org/x/sync/errgroup"
)

var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-200 response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

type PhotoClient struct {
	baseURL string
	client  *http.Client
}

func NewPhotoClient(baseURL string, timeout time.Duration) *PhotoClient {
	return &PhotoClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// ResolveImageURL prefixes relative image paths with the server base URL.
// Absolute URLs and data URIs are returned unchanged.
func (pc *PhotoClient) ResolveImageURL(imageURL string) string {
	if imageURL == "" ||
		strings.HasPrefix(imageURL, "http://") ||
		strings.HasPrefix(imageURL, "https://") ||
		strings.HasPrefix(imageURL, "data:") {
		return imageURL
	}
	return pc.baseURL + imageURL
}

func (pc *PhotoClient) resolvePhoto(p store.Photo) store.Photo {
	p.ImageURL = pc.ResolveImageURL(p.ImageURL)
	return p
}

func (pc *PhotoClient) do(ctx context.Context, method, endpoint string, reqBody, out any) error {
	var body io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	url := pc.baseURL + "/api" + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := pc.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// GetPhotos retrieves every photo with image urls resolved
func (pc *PhotoClient) GetPhotos(ctx context.Context) ([]store.Photo, error) {
	var photos []store.Photo
	if err := pc.do(ctx, http.MethodGet, "/photos", nil, &photos); err != nil {
		return nil, fmt.Errorf("get photos: %w", err)
	}
	for i := range photos {
		photos[i] = pc.resolvePhoto(photos[i])
	}
	return photos, nil
}

// GetPhoto retrieves a single photo. A missing photo matches ErrNotFound.
func (pc *PhotoClient) GetPhoto(ctx context.Context, id int) (*store.Photo, error) {
	var photo store.Photo
	if err := pc.do(ctx, http.MethodGet, fmt.Sprintf("/photos/%d", id), nil, &photo); err != nil {
		return nil, fmt.Errorf("get photo %d: %w", id, err)
	}
	photo = pc.resolvePhoto(photo)
	return &photo, nil
}

func (pc *PhotoClient) GetThemes(ctx context.Context) ([]store.Theme, error) {
	var themes []store.Theme
	if err := pc.do(ctx, http.MethodGet, "/themes", nil, &themes); err != nil {
		return nil, fmt.Errorf("get themes: %w", err)
	}
	return themes, nil
}

func (pc *PhotoClient) GetSettings(ctx context.Context) (*store.Settings, error) {
	var settings store.Settings
	if err := pc.do(ctx, http.MethodGet, "/settings", nil, &settings); err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings posts settings and returns the server-normalized copy
func (pc *PhotoClient) SaveSettings(ctx context.Context, settings store.Settings) (*store.Settings, error) {
	var saved store.Settings
	if err := pc.do(ctx, http.MethodPost, "/settings", settings, &saved); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return &saved, nil
}

// Session is everything a slideshow needs at start-up.
type Session struct {
	Photos   []store.Photo
	Settings store.Settings
	Themes   []store.Theme
}

// LoadSession fetches photos, settings, and themes concurrently. Any failure
// fails the whole load; there is no retry.
func (pc *PhotoClient) LoadSession(ctx context.Context) (*Session, error) {
	var session Session
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		photos, err := pc.GetPhotos(gctx)
		session.Photos = photos
		return err
	})
	g.Go(func() error {
		settings, err := pc.GetSettings(gctx)
		if err == nil {
			session.Settings = *settings
		}
		return err
	})
	g.Go(func() error {
		themes, err := pc.GetThemes(gctx)
		session.Themes = themes
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &session, nil
}

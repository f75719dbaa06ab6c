package slideshow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/aouyang1/photoslideshow/store"
)

var ErrInvalidInterval = errors.New("enter a positive integer")

// SettingsSaver persists settings and returns the normalized copy.
type SettingsSaver interface {
	SaveSettings(ctx context.Context, settings store.Settings) (*store.Settings, error)
}

// Panel edits the slideshow settings. Only settings confirmed by the saver
// are applied to the controller.
type Panel struct {
	mu         sync.Mutex
	saver      SettingsSaver
	controller *Controller
	themes     []store.Theme

	confirmed     store.Settings
	intervalText  string
	intervalError string
}

func NewPanel(saver SettingsSaver, controller *Controller, themes []store.Theme, settings store.Settings) *Panel {
	return &Panel{
		saver:        saver,
		controller:   controller,
		themes:       themes,
		confirmed:    settings,
		intervalText: strconv.Itoa(settings.SlideInterval),
	}
}

func (p *Panel) Settings() store.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.confirmed
}

// IntervalText is the interval as currently shown in the input.
func (p *Panel) IntervalText() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.intervalText
}

// IntervalError is the inline validation message, empty when the input is valid.
func (p *Panel) IntervalError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.intervalError
}

func (p *Panel) SelectTheme(ctx context.Context, themeID string) error {
	p.mu.Lock()
	candidate := p.confirmed
	p.mu.Unlock()

	candidate.ThemeID = themeID
	return p.save(ctx, candidate)
}

// SelectPlayMode saves the mode and reshuffles the show whether or not the
// save succeeds.
func (p *Panel) SelectPlayMode(ctx context.Context, playMode string) error {
	p.mu.Lock()
	candidate := p.confirmed
	p.mu.Unlock()

	candidate.PlayMode = playMode
	err := p.save(ctx, candidate)
	p.controller.Reshuffle()
	return err
}

// EditInterval records keystrokes in the interval input without saving.
func (p *Panel) EditInterval(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intervalText = text
}

// SubmitInterval validates text as a positive integer before saving it. On
// failure the input reverts to the confirmed interval.
func (p *Panel) SubmitInterval(ctx context.Context, text string) error {
	p.mu.Lock()
	interval, err := strconv.Atoi(text)
	if err != nil || interval <= 0 {
		p.intervalText = strconv.Itoa(p.confirmed.SlideInterval)
		p.intervalError = ErrInvalidInterval.Error()
		p.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrInvalidInterval, text)
	}
	p.intervalError = ""
	candidate := p.confirmed
	p.mu.Unlock()

	candidate.SlideInterval = interval
	return p.save(ctx, candidate)
}

// HandleKey maps digits 1..len(themes) to the theme at that position.
func (p *Panel) HandleKey(ctx context.Context, key string, inTextEntry bool) (bool, error) {
	if inTextEntry {
		return false, nil
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > len(p.themes) {
		return false, nil
	}

	themeID := p.themes[n-1].ID
	if themeID == p.Settings().ThemeID {
		return true, nil
	}
	return true, p.SelectTheme(ctx, themeID)
}

func (p *Panel) save(ctx context.Context, candidate store.Settings) error {
	saved, err := p.saver.SaveSettings(ctx, candidate)
	if err != nil {
		slog.Error("failed to save settings", "error", err)
		p.mu.Lock()
		p.intervalText = strconv.Itoa(p.confirmed.SlideInterval)
		p.mu.Unlock()
		return fmt.Errorf("failed to save settings: %w", err)
	}

	p.mu.Lock()
	p.confirmed = *saved
	p.intervalText = strconv.Itoa(saved.SlideInterval)
	p.mu.Unlock()

	p.controller.ApplySettings(*saved)
	return nil
}

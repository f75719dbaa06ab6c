package api

import (
	"testing"

	"github.com/aouyang1/photoslideshow/store"
	"github.com/stretchr/testify/assert"
)

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		want     *store.Settings
		wantMsgs []string
	}{
		{
			name: "valid",
			raw:  map[string]any{"themeId": "B", "slideInterval": 3000.0, "playMode": "random"},
			want: &store.Settings{ThemeID: "B", SlideInterval: 3000, PlayMode: store.PlayModeRandom},
		},
		{
			name: "play mode defaults to auto",
			raw:  map[string]any{"themeId": "A", "slideInterval": 100.0},
			want: &store.Settings{ThemeID: "A", SlideInterval: 100, PlayMode: store.PlayModeAuto},
		},
		{
			name: "falsy play mode defaults to auto",
			raw:  map[string]any{"themeId": "C", "slideInterval": 100.0, "playMode": ""},
			want: &store.Settings{ThemeID: "C", SlideInterval: 100, PlayMode: store.PlayModeAuto},
		},
		{
			name: "interval truncated",
			raw:  map[string]any{"themeId": "A", "slideInterval": 1500.9, "playMode": "auto"},
			want: &store.Settings{ThemeID: "A", SlideInterval: 1500, PlayMode: store.PlayModeAuto},
		},
		{
			name:     "unknown theme",
			raw:      map[string]any{"themeId": "D", "slideInterval": 10.0, "playMode": "auto"},
			wantMsgs: []string{"themeId must be one of A, B, C"},
		},
		{
			name:     "missing theme",
			raw:      map[string]any{"slideInterval": 10.0},
			wantMsgs: []string{"themeId must be one of A, B, C"},
		},
		{
			name:     "negative interval",
			raw:      map[string]any{"themeId": "A", "slideInterval": -5.0, "playMode": "auto"},
			wantMsgs: []string{"slideInterval must be a positive number"},
		},
		{
			name:     "zero interval",
			raw:      map[string]any{"themeId": "A", "slideInterval": 0.0},
			wantMsgs: []string{"slideInterval must be a positive number"},
		},
		{
			name:     "fractional interval below one",
			raw:      map[string]any{"themeId": "A", "slideInterval": 0.5},
			wantMsgs: []string{"slideInterval must be a positive number"},
		},
		{
			name:     "string interval",
			raw:      map[string]any{"themeId": "A", "slideInterval": "3000"},
			wantMsgs: []string{"slideInterval must be a number"},
		},
		{
			name:     "huge interval",
			raw:      map[string]any{"themeId": "A", "slideInterval": 1e12},
			wantMsgs: []string{"slideInterval is too large"},
		},
		{
			name:     "bad play mode",
			raw:      map[string]any{"themeId": "A", "slideInterval": 10.0, "playMode": "shuffle"},
			wantMsgs: []string{"playMode must be auto or random"},
		},
		{
			name:     "non string play mode",
			raw:      map[string]any{"themeId": "A", "slideInterval": 10.0, "playMode": true},
			wantMsgs: []string{"playMode must be auto or random"},
		},
		{
			name: "every field invalid",
			raw:  map[string]any{"themeId": 1.0, "playMode": "loop"},
			wantMsgs: []string{
				"themeId must be one of A, B, C",
				"slideInterval must be a number",
				"playMode must be auto or random",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msgs := validateSettings(tt.raw)
			assert.Equal(t, tt.wantMsgs, msgs)
			assert.Equal(t, tt.want, got)
		})
	}
}

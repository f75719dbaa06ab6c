package api

import (
	"fmt"
	"math"

	"github.com/aouyang1/photoslideshow/store"
	"github.com/go-playground/validator/v10"
)

const maxSlideInterval = math.MaxInt32

var validate = validator.New(validator.WithRequiredStructEnabled())

// settingsCandidate is a loosely typed POST /settings body narrowed to the
// shapes the validator can check.
type settingsCandidate struct {
	ThemeID       string   `validate:"required,oneof=A B C"`
	SlideInterval *float64 `validate:"required,gte=1"`
	PlayMode      string   `validate:"omitempty,oneof=auto random"`
}

var fieldMessages = map[string]map[string]string{
	"ThemeID": {
		"": "themeId must be one of A, B, C",
	},
	"SlideInterval": {
		"required": "slideInterval must be a number",
		"gte":      "slideInterval must be a positive number",
		"":         "slideInterval must be a number",
	},
	"PlayMode": {
		"": "playMode must be auto or random",
	},
}

func newSettingsCandidate(raw map[string]any) settingsCandidate {
	var c settingsCandidate
	c.ThemeID, _ = raw["themeId"].(string)
	if v, ok := raw["slideInterval"].(float64); ok {
		c.SlideInterval = &v
	}
	c.PlayMode = truthyString(raw["playMode"])
	return c
}

// truthyString returns "" for absent or falsy JSON values and a string form
// of anything else, so non-string play modes fail the oneof check.
func truthyString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "true"
	case float64:
		if t == 0 {
			return ""
		}
		return fmt.Sprint(t)
	default:
		return fmt.Sprint(t)
	}
}

// validateSettings checks theme, interval, and play mode independently and
// returns every failure message. On success it returns normalized settings.
func validateSettings(raw map[string]any) (*store.Settings, []string) {
	c := newSettingsCandidate(raw)

	var msgs []string
	if err := validate.Struct(c); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, []string{err.Error()}
		}
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
	}
	if c.SlideInterval != nil && *c.SlideInterval > maxSlideInterval {
		msgs = append(msgs, "slideInterval is too large")
	}
	if len(msgs) > 0 {
		return nil, msgs
	}

	playMode := c.PlayMode
	if playMode == "" {
		playMode = store.PlayModeAuto
	}
	return &store.Settings{
		ThemeID:       c.ThemeID,
		SlideInterval: int(math.Trunc(*c.SlideInterval)),
		PlayMode:      playMode,
	}, nil
}

func fieldMessage(fe validator.FieldError) string {
	byTag, ok := fieldMessages[fe.Field()]
	if !ok {
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
	if msg, ok := byTag[fe.Tag()]; ok {
		return msg
	}
	return byTag[""]
}

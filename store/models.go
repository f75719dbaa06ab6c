package store

const (
	PlayModeAuto   = "auto"
	PlayModeRandom = "random"
)

type Photo struct {
	ID        int    `json:"id"`
	ImageURL  string `json:"imageUrl"`
	Caption   string `json:"caption"`
	FileSize  string `json:"fileSize,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type Theme struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Settings struct {
	ThemeID       string `json:"themeId"`
	SlideInterval int    `json:"slideInterval"`
	PlayMode      string `json:"playMode"`
}

// Document is the full contents of the data file.
type Document struct {
	Photos   []Photo  `json:"photos"`
	Themes   []Theme  `json:"themes"`
	Settings Settings `json:"settings"`
}

// DefaultSettings is used when the data file is missing.
func DefaultSettings() Settings {
	return Settings{
		ThemeID:       "A",
		SlideInterval: 500,
		PlayMode:      PlayModeAuto,
	}
}

package slideshow

// Phase is the animation state of a photo swap.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseExiting
	PhaseEntering
)

func (p Phase) String() string {
	switch p {
	case PhaseExiting:
		return "exiting"
	case PhaseEntering:
		return "entering"
	default:
		return "none"
	}
}

// AnimationClass returns the CSS class for a theme and phase. Theme A and
// unknown themes never animate.
func AnimationClass(themeID string, phase Phase) string {
	switch phase {
	case PhaseExiting:
		switch themeID {
		case "B":
			return "animate-fade-out"
		case "C":
			return "animate-blur-out"
		}
	case PhaseEntering:
		switch themeID {
		case "B":
			return "animate-fade-in"
		case "C":
			return "animate-blur-in"
		}
	}
	return ""
}

// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// nerdFontTerminals typically ship with a patched font.
var nerdFontTerminals = []string{"iTerm.app", "alacritty", "WezTerm", "kitty", "ghostty"}

func detectNerdFonts() bool {
	if env := os.Getenv("ANUNCIA_NERD_FONTS"); env != "" {
		return env == "1" || strings.EqualFold(env, "true")
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")
	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	App     = Icon{"󰒚", "◈"} // nf-md-shopping
	User    = Icon{"󰀄", "☺"} // nf-md-account
	Listing = Icon{"󰓹", "▤"} // nf-md-tag
	Image   = Icon{"󰋩", "▣"} // nf-md-image
	New     = Icon{"󰐕", "+"} // nf-md-plus
	Edit    = Icon{"󰏫", "✎"} // nf-md-pencil
	Logout  = Icon{"󰍃", "⇥"} // nf-md-logout

	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle

	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Back    = Icon{"󰁍", "←"} // nf-md-arrow_left
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app
)

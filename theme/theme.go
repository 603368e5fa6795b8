// Package theme implements the light/dark theme state of a page.
//
// A Controller is built once per page load. It resolves the initial theme from
// the site override, the persisted user choice and the operating system
// preference, in that order, and from then on changes only through Toggle or
// an OS preference notification. The document marker and the persisted value
// are reached through the Marker and Store interfaces so the state machine can
// be exercised without a browser.
package theme

import (
	"strings"
	"sync"
)

// Theme is a color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func (t Theme) String() string { return string(t) }

// Parse accepts "light" or "dark" in any case. Anything else is rejected.
func Parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// FromSystem maps an OS "prefers dark" flag to a Theme.
func FromSystem(dark bool) Theme {
	if dark {
		return Dark
	}
	return Light
}

// Preference is the site-wide theme setting.
type Preference string

const (
	// System defers to the visitor: persisted choice, then OS preference.
	System     Preference = "system"
	ForceLight Preference = "light"
	ForceDark  Preference = "dark"
)

// ParsePreference maps a config value to a Preference, defaulting to System.
func ParsePreference(s string) Preference {
	if t, ok := Parse(s); ok {
		return Preference(t)
	}
	return System
}

// Store persists the visitor's choice.
type Store interface {
	// Load returns the persisted theme. Missing or malformed values report
	// ok == false.
	Load() (t Theme, ok bool)
	Save(t Theme) error
}

// Marker applies the theme to the document.
type Marker interface {
	// Apply removes the marker for prev, if any, and adds the one for next.
	Apply(prev, next Theme)
}

// Logger receives persistence errors, which never interrupt a transition.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Controller is the theme state machine of one page load.
type Controller struct {
	mu       sync.Mutex
	current  Theme
	explicit bool
	store    Store
	marker   Marker
	log      Logger
}

// New resolves the initial theme and applies its marker. systemDark is the OS
// preference at load time.
func New(pref Preference, store Store, marker Marker, systemDark bool, log Logger) *Controller {
	c := &Controller{store: store, marker: marker, log: log}
	saved, hasSaved := store.Load()
	c.explicit = hasSaved

	switch {
	case pref == ForceLight || pref == ForceDark:
		c.current = Theme(pref)
	case hasSaved:
		c.current = saved
	default:
		c.current = FromSystem(systemDark)
	}
	marker.Apply("", c.current)
	return c
}

// Current returns the active theme.
func (c *Controller) Current() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Explicit reports whether the theme is pinned by a persisted or manual choice.
func (c *Controller) Explicit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.explicit
}

// Toggle flips the theme and persists the new value. OS preference changes
// are ignored afterwards.
func (c *Controller) Toggle() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.explicit = true
	c.transition(c.current.Opposite())
	return c.current
}

// SystemChanged adopts the OS preference unless the visitor has made an
// explicit choice. It returns the active theme.
func (c *Controller) SystemChanged(dark bool) Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.explicit {
		return c.current
	}
	if next := FromSystem(dark); next != c.current {
		c.transition(next)
	}
	return c.current
}

// transition must be called with c.mu held.
func (c *Controller) transition(next Theme) {
	prev := c.current
	c.current = next
	c.marker.Apply(prev, next)
	if err := c.store.Save(next); err != nil && c.log != nil {
		c.log.Errorf("theme: persist %s: %v", next, err)
	}
}

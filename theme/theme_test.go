package theme

import (
	"errors"
	"fmt"
	"testing"
)

func markers(l *ClassList) (light, dark bool) {
	return l.Has("light"), l.Has("dark")
}

func assertOneMarker(t *testing.T, l *ClassList, want Theme) {
	t.Helper()
	light, dark := markers(l)
	if light == dark {
		t.Fatalf("markers light=%v dark=%v, want exactly one", light, dark)
	}
	if !l.Has(string(want)) {
		t.Fatalf("marker %s missing, classes %v", want, l.Classes())
	}
}

func TestInitialResolution(t *testing.T) {
	tests := []struct {
		name       string
		pref       Preference
		saved      string
		systemDark bool
		want       Theme
	}{
		{"system follows os dark", System, "", true, Dark},
		{"system follows os light", System, "", false, Light},
		{"override light beats os", ForceLight, "", true, Light},
		{"override dark beats saved", ForceDark, "light", false, Dark},
		{"saved beats os", System, "light", true, Light},
		{"malformed saved ignored", System, "purple", true, Dark},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			if tt.saved != "" {
				store.Set(StorageKey, tt.saved)
			}
			marker := NewClassList()
			c := New(tt.pref, store, marker, tt.systemDark, nil)
			if got := c.Current(); got != tt.want {
				t.Fatalf("Current() = %s, want %s", got, tt.want)
			}
			assertOneMarker(t, marker, tt.want)
			if store.Saves() != 0 {
				t.Fatalf("initial resolution persisted %d times", store.Saves())
			}
		})
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	store := NewMemoryStore()
	marker := NewClassList("antialiased")
	c := New(System, store, marker, false, nil)

	if got := c.Toggle(); got != Dark {
		t.Fatalf("first Toggle() = %s, want dark", got)
	}
	assertOneMarker(t, marker, Dark)
	if v, _ := store.Raw(StorageKey); v != "dark" {
		t.Fatalf("persisted %q after first toggle", v)
	}

	if got := c.Toggle(); got != Light {
		t.Fatalf("second Toggle() = %s, want light", got)
	}
	assertOneMarker(t, marker, Light)
	if v, _ := store.Raw(StorageKey); v != "light" {
		t.Fatalf("persisted %q after second toggle", v)
	}
	if !marker.Has("antialiased") {
		t.Fatal("unrelated class removed")
	}
}

func TestClassListRemovesOnlyPrev(t *testing.T) {
	l := NewClassList()
	l.Apply("", Light)
	l.Apply(Light, Light)
	l.Apply(Dark, Dark)
	if light, dark := markers(l); !light || !dark {
		t.Fatalf("markers light=%v dark=%v, want both after a wrong prev", light, dark)
	}
}

func TestToggleIgnoresOverrideOrigin(t *testing.T) {
	c := New(ForceDark, NewMemoryStore(), NewClassList(), false, nil)
	if got := c.Toggle(); got != Light {
		t.Fatalf("Toggle() under dark override = %s, want light", got)
	}
}

func TestSystemChangeFollowedWithoutSavedChoice(t *testing.T) {
	store := NewMemoryStore()
	marker := NewClassList()
	c := New(System, store, marker, false, nil)

	if got := c.SystemChanged(true); got != Dark {
		t.Fatalf("SystemChanged(dark) = %s", got)
	}
	assertOneMarker(t, marker, Dark)
	if store.Saves() != 1 {
		t.Fatalf("saves = %d, want 1", store.Saves())
	}
}

func TestSystemChangeIgnoredAfterToggle(t *testing.T) {
	marker := NewClassList()
	c := New(System, NewMemoryStore(), marker, false, nil)
	c.Toggle()
	if got := c.SystemChanged(false); got != Dark {
		t.Fatalf("SystemChanged after toggle = %s, want dark kept", got)
	}
	assertOneMarker(t, marker, Dark)
}

func TestSystemChangeIgnoredWithSavedChoice(t *testing.T) {
	store := NewMemoryStore()
	store.Set(StorageKey, "light")
	c := New(System, store, NewClassList(), false, nil)
	if got := c.SystemChanged(true); got != Light {
		t.Fatalf("SystemChanged with saved choice = %s, want light", got)
	}
	if store.Saves() != 0 {
		t.Fatalf("saves = %d, want 0", store.Saves())
	}
}

type failingStore struct{ *MemoryStore }

func (failingStore) Save(Theme) error { return errors.New("quota exceeded") }

type recordingLogger struct{ lines []string }

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestPersistFailureIsSwallowed(t *testing.T) {
	log := &recordingLogger{}
	store := failingStore{NewMemoryStore()}
	marker := NewClassList()
	c := New(System, store, marker, false, log)
	if got := c.Toggle(); got != Dark {
		t.Fatalf("Toggle() = %s", got)
	}
	assertOneMarker(t, marker, Dark)
	if len(log.lines) != 1 {
		t.Fatalf("logged %d lines, want 1", len(log.lines))
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Theme
		ok   bool
	}{
		{"dark", Dark, true},
		{" Light ", Light, true},
		{"", "", false},
		{"system", "", false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Parse(%q) = %q, %v", tt.in, got, ok)
		}
	}
	if ParsePreference("nonsense") != System {
		t.Error("unknown preference should fall back to system")
	}
}

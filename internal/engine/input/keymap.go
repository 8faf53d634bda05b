package input

import (
	"fmt"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// Chord is a modifier set plus a key, identified logically (keycode),
// physically (scancode), or both. Matching is exact on modifiers and
// accepts either identification.
type Chord struct {
	Mods Modifiers
	Key  sdl.Keycode
	Code sdl.Scancode
}

// Matches reports whether a key press satisfies the chord.
func (c Chord) Matches(mods Modifiers, key sdl.Keycode, code sdl.Scancode) bool {
	if mods != c.Mods {
		return false
	}
	if c.Key != sdl.K_UNKNOWN && key == c.Key {
		return true
	}
	if c.Code != sdl.SCANCODE_UNKNOWN && code == c.Code {
		return true
	}
	return false
}

// namedKeys maps spec names that are not single printable characters.
var namedKeys = map[string]sdl.Keycode{
	"space":  sdl.K_SPACE,
	"tab":    sdl.K_TAB,
	"return": sdl.K_RETURN,
	"enter":  sdl.K_RETURN,
	"escape": sdl.K_ESCAPE,
	"esc":    sdl.K_ESCAPE,
	"home":   sdl.K_HOME,
	"end":    sdl.K_END,
	"left":   sdl.K_LEFT,
	"right":  sdl.K_RIGHT,
	"up":     sdl.K_UP,
	"down":   sdl.K_DOWN,
	"f1":     sdl.K_F1,
	"f2":     sdl.K_F2,
	"f3":     sdl.K_F3,
	"f4":     sdl.K_F4,
	"f5":     sdl.K_F5,
	"f6":     sdl.K_F6,
	"f7":     sdl.K_F7,
	"f8":     sdl.K_F8,
	"f9":     sdl.K_F9,
	"f10":    sdl.K_F10,
	"f11":    sdl.K_F11,
	"f12":    sdl.K_F12,
}

// ParseChord parses a binding spec such as "cmd+1" or "ctrl+shift+p".
// Modifier names: shift, ctrl, alt (opt), cmd (gui, super, meta). The
// final token is the key: a single printable ASCII character or a name
// from the special-key table.
func ParseChord(spec string) (Chord, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(spec)), "+")
	var c Chord
	for i, p := range parts {
		p = strings.TrimSpace(p)
		last := i == len(parts)-1
		switch p {
		case "shift":
			c.Mods.Shift = true
		case "ctrl", "control":
			c.Mods.Ctrl = true
		case "alt", "opt", "option":
			c.Mods.Alt = true
		case "cmd", "gui", "super", "meta", "win":
			c.Mods.Gui = true
		default:
			if !last {
				return Chord{}, fmt.Errorf("unknown modifier %q in %q", p, spec)
			}
			if key, ok := namedKeys[p]; ok {
				c.Key = key
				return c, nil
			}
			if len(p) == 1 && p[0] >= ' ' && p[0] <= '~' {
				// SDL keycodes for printable ASCII are the character values.
				c.Key = sdl.Keycode(p[0])
				return c, nil
			}
			return Chord{}, fmt.Errorf("unknown key %q in %q", p, spec)
		}
		if last {
			return Chord{}, fmt.Errorf("binding %q has no key", spec)
		}
	}
	return Chord{}, fmt.Errorf("empty binding")
}

// Binding associates a chord with a named action: a default-view id or
// the projection-toggle action.
type Binding struct {
	Chord  Chord
	Action string
}

// ToggleProjectionAction is the reserved action name for the
// perspective/orthographic toggle.
const ToggleProjectionAction = "toggle-projection"

// Keymap resolves key presses to actions. First matching binding wins.
type Keymap struct {
	bindings []Binding
}

// NewKeymap returns an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{}
}

// Bind appends a binding.
func (k *Keymap) Bind(c Chord, action string) {
	k.bindings = append(k.bindings, Binding{Chord: c, Action: action})
}

// BindSpec parses and appends a binding.
func (k *Keymap) BindSpec(spec, action string) error {
	c, err := ParseChord(spec)
	if err != nil {
		return err
	}
	k.Bind(c, action)
	return nil
}

// Lookup resolves a key press to an action.
func (k *Keymap) Lookup(mods Modifiers, key sdl.Keycode, code sdl.Scancode) (string, bool) {
	for _, b := range k.bindings {
		if b.Chord.Matches(mods, key, code) {
			return b.Action, true
		}
	}
	return "", false
}

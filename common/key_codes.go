package common

import (
	"fmt"
	"strings"
)

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW         = 87  // W key (ASCII)
	KeyA         = 65  // A key (ASCII)
	KeyS         = 83  // S key (ASCII)
	KeyD         = 68  // D key (ASCII)
	KeyQ         = 81  // Q key (ASCII)
	KeyE         = 69  // E key (ASCII)
	KeyF         = 70  // F key (ASCII)
	KeySpace     = 32  // Spacebar (ASCII)
	KeyBackspace = 259 // Backspace key (GLFW)
	KeyEsc       = 256 // Escape key (GLFW)
	KeyRight     = 262 // Right arrow (GLFW)
	KeyLeft      = 263 // Left arrow (GLFW)
	KeyDown      = 264 // Down arrow (GLFW)
	KeyUp        = 265 // Up arrow (GLFW)
)

// Additional non-printable keys
const (
	KeyLeftShift  = 340 // Left Shift (GLFW)
	KeyRightShift = 344 // Right Shift (GLFW)
)

// namedKeys maps the non-printable key names accepted in configuration files to their codes.
var namedKeys = map[string]uint32{
	"SPACE":       KeySpace,
	"BACKSPACE":   KeyBackspace,
	"ESCAPE":      KeyEsc,
	"ESC":         KeyEsc,
	"RIGHT":       KeyRight,
	"LEFT":        KeyLeft,
	"DOWN":        KeyDown,
	"UP":          KeyUp,
	"LEFT_SHIFT":  KeyLeftShift,
	"RIGHT_SHIFT": KeyRightShift,
}

// KeyCode resolves a key name to its virtual key code.
// Single letters and digits map to their ASCII value; longer names are looked up in the
// named key table. Matching is case-insensitive.
//
// Parameters:
//   - name: the key name, e.g. "w", "E", "space", "left_shift"
//
// Returns:
//   - uint32: the virtual key code
//   - error: error if the name is not a known key
func KeyCode(name string) (uint32, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if len(n) == 1 {
		c := n[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return uint32(c), nil
		}
	}
	if code, ok := namedKeys[n]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

package scene

import "github.com/lucasb-eyer/go-colorful"

// The gizmo palette. Accent is the cyan applied to hovered and active
// handles, the selected-face overlay, and the box while free-translating.
var (
	ColorHandle   = mustHex("#e8e8e8")
	ColorAccent   = mustHex("#00e5ff")
	ColorBoxLine  = mustHex("#ffb300")
	ColorBoxFill  = mustHex("#546e7a")
	ColorBoundary = colorful.Color{R: 1, G: 1, B: 1}
	ColorAxisX    = mustHex("#ef5350")
	ColorAxisY    = mustHex("#66bb6a")
	ColorAxisZ    = mustHex("#42a5f5")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Dimmed returns the color blended toward black in LAB space by the given
// amount in [0, 1].
func Dimmed(c colorful.Color, amount float64) colorful.Color {
	return c.BlendLab(colorful.Color{}, amount).Clamped()
}

// Tinted returns the color blended toward the accent color.
func Tinted(c colorful.Color, amount float64) colorful.Color {
	return c.BlendLab(ColorAccent, amount).Clamped()
}

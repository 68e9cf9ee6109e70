package imaging

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds one display color per strand. Strand index i (1-based) uses Palette[i-1].
type Palette []color.RGBA

// ParsePalette converts "#RRGGBB" strings into a Palette.
//
// # Errors
//
// Returns an error naming the first entry that is not a valid hex color.
func ParsePalette(hexColors []string) (Palette, error) {
	p := make(Palette, 0, len(hexColors))
	for i, hex := range hexColors {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d (%q): %w", i, hex, err)
		}
		r, g, b := c.RGB255()
		p = append(p, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return p, nil
}

// ForStrand returns the color of a 1-based strand index. Indices outside the
// palette wrap around so a miscounted strand still gets a color.
func (p Palette) ForStrand(strand int) color.RGBA {
	if len(p) == 0 {
		return color.RGBA{255, 255, 255, 255}
	}
	i := (strand - 1) % len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

// Hex returns the palette as "#RRGGBB" strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		cf, _ := colorful.MakeColor(c)
		out[i] = cf.Hex()
	}
	return out
}

// labelColor picks black or white text, whichever reads better on bg.
func labelColor(bg color.RGBA) color.RGBA {
	cf, _ := colorful.MakeColor(bg)
	l, _, _ := cf.Lab()
	if l > 0.6 {
		return color.RGBA{0, 0, 0, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}

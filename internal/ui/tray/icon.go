package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"pomodorino/internal/core/model"
)

const iconSize = 22

// renderIcon draws the tray disc: red filling in as an activity
// progresses, blue draining away during a break, grey while paused.
func renderIcon(fraction float64, kind model.PhaseKind, paused bool) []byte {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	base := color.RGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff}
	var tint color.RGBA
	var strength float64
	switch {
	case paused:
		tint = color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}
		strength = 0.6
	case kind.IsBreak():
		tint = color.RGBA{B: 0xff, A: 0xff}
		strength = 0.5 * (1 - fraction)
	default:
		tint = color.RGBA{R: 0xff, A: 0xff}
		strength = 0.5 * fraction
	}

	fill := color.RGBA{
		R: mix(base.R, tint.R, strength),
		G: mix(base.G, tint.G, strength),
		B: mix(base.B, tint.B, strength),
		A: 0xff,
	}

	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	center := float64(iconSize-1) / 2
	radius := center - 1
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx := float64(x) - center
			dy := float64(y) - center
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, fill)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func mix(base, tint uint8, strength float64) uint8 {
	return uint8(float64(base)*(1-strength) + float64(tint)*strength)
}

package equiplot

//Some internal convenience functions.

import "math"

//hsv2RGB takes a hue (0-360) plus value and saturation (both 0-1) and
//returns r,g,b in the 0-255 range.
func hsv2RGB(h, v, s float64) (uint8, uint8, uint8) {
	const maxcolor = 255.0
	conv := maxcolor * v
	if s == 0.0 {
		return uint8(conv), uint8(conv), uint8(conv)
	}
	h = h / 60
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	var r, g, b float64
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conv), uint8(g * conv), uint8(b * conv)
}

//colors spreads the hues of the color wheel over the given number of
//series, skipping the hard-to-tell-apart yellows.
func colors(key, total int) (r, g, b uint8) {
	norm := 260.0 / float64(total)
	hp := float64(key)*norm + 20.0
	h := hp + 20.0
	if hp < 55 {
		h = hp - 20.0
	}
	return hsv2RGB(h, 1.0, 1.0)
}

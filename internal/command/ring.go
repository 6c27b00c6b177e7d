package command

// PackColor scales each channel by intensity, truncates to an integer,
// and packs the result into a single 24-bit value (r<<16 | g<<8 | b).
// This is the wire format of the ring.fadeColor parameter.
func PackColor(r, g, b int, intensity float64) uint32 {
	return clampChannel(float64(r)*intensity)<<16 |
		clampChannel(float64(g)*intensity)<<8 |
		clampChannel(float64(b)*intensity)
}

func clampChannel(v float64) uint32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint32(v)
}

package lamp

import "math"

// ToExternal converts a device brightness percentage (0-100) to the host
// scale (0-255). Out-of-range input is clamped.
func ToExternal(percent int) uint8 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return uint8(math.Round(255 * float64(percent) / 100))
}

// ToPercent converts a host brightness (0-255) to the device percentage (0-100).
func ToPercent(level uint8) int {
	return int(math.Round(100 * float64(level) / 255))
}

package forecast

import "math"

// CompassPoint maps a bearing in degrees to one of eight 45°-wide sectors,
// 0 = north, proceeding clockwise. Non-finite bearings map to north.
func CompassPoint(bearing float64) int {
	if math.IsNaN(bearing) || math.IsInf(bearing, 0) {
		return 0
	}
	b := math.Mod(bearing, 360)
	if b < 0 {
		b += 360
	}
	return int(math.Round(b/45)) % 8
}

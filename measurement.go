package slidemodel

import "math"

// EMU (English Metric Units) conversion helpers.
// 1 inch = 914400 EMU, 1 point = 12700 EMU, 1 cm = 360000 EMU.

const (
	emuPerInch       = 914400
	emuPerPoint      = 12700
	emuPerCentimeter = 360000
	emuPerMillimeter = 36000
	// maxEMU is the maximum safe EMU value to prevent overflow.
	maxEMU = math.MaxInt64 / 2
)

// ToDisplay converts a document length in EMU to display inches.
func ToDisplay(emu int64) float64 {
	return float64(emu) / emuPerInch
}

// ToDocument converts display inches to EMU, rounding to the nearest unit.
func ToDocument(inches float64) int64 {
	return clampEMU(math.Round(inches * emuPerInch))
}

// Inch converts inches to EMU. Clamps to safe range.
func Inch(n float64) int64 {
	return ToDocument(n)
}

// Point converts points to EMU.
func Point(n float64) int64 {
	return clampEMU(math.Round(n * emuPerPoint))
}

// Centimeter converts centimeters to EMU.
func Centimeter(n float64) int64 {
	return clampEMU(math.Round(n * emuPerCentimeter))
}

// Millimeter converts millimeters to EMU.
func Millimeter(n float64) int64 {
	return clampEMU(math.Round(n * emuPerMillimeter))
}

// EMUToPoint converts EMU to points.
func EMUToPoint(emu int64) float64 {
	return float64(emu) / emuPerPoint
}

// EMUToCentimeter converts EMU to centimeters.
func EMUToCentimeter(emu int64) float64 {
	return float64(emu) / emuPerCentimeter
}

// clampEMU converts a float64 to int64, clamping to prevent overflow.
func clampEMU(v float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	if v > float64(maxEMU) {
		return maxEMU
	}
	if v < -float64(maxEMU) {
		return -maxEMU
	}
	return int64(v)
}

// clampExtent forces an extent to be non-negative. The second result
// reports whether the input had to be changed.
func clampExtent(v int64) (int64, bool) {
	if v < 0 {
		return 0, true
	}
	return v, false
}

// angleToOOXML converts degrees to the 60000ths-of-a-degree unit used by
// rot, ang, stAng and swAng attributes.
func angleToOOXML(deg float64) int64 {
	return int64(math.Round(deg * 60000))
}

// angleFromOOXML is the inverse of angleToOOXML.
func angleFromOOXML(v int64) float64 {
	return float64(v) / 60000
}

// normalizeRotation folds any real rotation into [0, 360).
func normalizeRotation(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	return r
}

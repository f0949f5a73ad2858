package dsp

import "github.com/robotalks/accstream/pkg/accel"

// Quantizer constants.
const (
	// Shift is the right shift applied to filtered values.
	Shift = 4
	// Mask keeps the low 8 bits after shifting.
	Mask = 0xff

	maxIn = 127 << Shift
	minIn = -128 << Shift
)

// Quantize compresses a filtered value into a saturating int8.
func Quantize(v int32) int8 {
	if v > maxIn {
		return 127
	}
	if v < minIn {
		return -128
	}
	return int8(uint8((v >> Shift) & Mask))
}

// QuantizeSample quantizes every axis of s.
func QuantizeSample(s accel.FilteredSample) accel.QuantizedSample {
	return accel.QuantizedSample{
		X: Quantize(s.X),
		Y: Quantize(s.Y),
		Z: Quantize(s.Z),
	}
}

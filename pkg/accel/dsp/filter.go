// Package dsp contains the fixed-point filter and quantizer of the
// accelerometer pipeline.
package dsp

import "github.com/robotalks/accstream/pkg/accel"

// BlockSize is the number of raw samples consumed per filtered sample.
const BlockSize = accel.DecimateBy

// FilterBlock folds exactly BlockSize raw samples into one filtered sample.
// It panics if block is shorter than BlockSize.
//
// Coefficients are approximately {1/32, 1/4, 1/2, 1/4, 1/32}, computed with
// shifts and subtractions only. The output must stay bit-identical: hosts
// decode frames assuming these exact values.
func FilterBlock(block []accel.RawSample) accel.FilteredSample {
	_ = block[BlockSize-1]
	return accel.FilteredSample{
		X: filterAxis(block[0].X, block[1].X, block[2].X, block[3].X, block[4].X),
		Y: filterAxis(block[0].Y, block[1].Y, block[2].Y, block[3].Y, block[4].Y),
		Z: filterAxis(block[0].Z, block[1].Z, block[2].Z, block[3].Z, block[4].Z),
	}
}

func filterAxis(s0, s1, s2, s3, s4 int16) int32 {
	v0, v1, v2, v3, v4 := int32(s0), int32(s1), int32(s2), int32(s3), int32(s4)
	acc := v0 >> 5
	acc += (v1 >> 2) - (v1 >> 6)
	acc += (v2 >> 1) - (v2 >> 5)
	acc += (v3 >> 2) - (v3 >> 6)
	acc += v4 >> 5
	return acc
}

// Blocks returns the number of whole blocks in n raw samples.
// Trailing n%BlockSize samples never form a block.
func Blocks(n int) int {
	return n / BlockSize
}

// Decimate filters src block by block into dst and returns the number of
// filtered samples written: min(len(dst), Blocks(len(src))).
// A trailing partial block is ignored.
func Decimate(dst []accel.FilteredSample, src []accel.RawSample) int {
	n := Blocks(len(src))
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = FilterBlock(src[i*BlockSize : (i+1)*BlockSize])
	}
	return n
}

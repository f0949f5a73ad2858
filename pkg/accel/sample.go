// Package accel defines the accelerometer sample types flowing through
// the compression pipeline.
package accel

// Sampling constants of the device.
const (
	// RawRate is the raw accelerometer sampling rate in Hz.
	RawRate = 100
	// DecimateBy is the number of raw samples folded into one filtered sample.
	DecimateBy = 5
	// DecimatedRate is the sample rate after decimation.
	DecimatedRate = RawRate / DecimateBy
	// DefaultBatchSize is the number of raw samples per delivered batch.
	DefaultBatchSize = 20
	// Axes is the number of scalars per sample.
	Axes = 3
)

// RawSample is one tri-axis reading straight from the sensor.
type RawSample struct {
	X, Y, Z int16
}

// Batch is an ordered run of raw samples delivered together.
// The batch size is len(Samples) and should be a multiple of DecimateBy.
type Batch struct {
	Samples []RawSample
	// Timestamp is a monotonic device timestamp in milliseconds.
	Timestamp uint64
}

// FilteredSample is the per-axis accumulator of one decimation block.
type FilteredSample struct {
	X, Y, Z int32
}

// QuantizedSample is the 8-bit compressed form of a FilteredSample.
type QuantizedSample struct {
	X, Y, Z int8
}

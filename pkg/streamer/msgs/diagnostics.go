// Package msgs defines the protobuf events published by the streamer.
package msgs

import (
	"github.com/golang/protobuf/proto"
)

// Diagnostics is a periodic event reflecting the streamer counters.
type Diagnostics struct {
	DeviceID        string `protobuf:"bytes,1,opt,name=device_id,proto3" json:"device_id,omitempty"`
	Timestamp       uint64 `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	SampleRate      uint32 `protobuf:"varint,3,opt,name=sample_rate,proto3" json:"sample_rate,omitempty"`
	TotalBytes      uint32 `protobuf:"varint,4,opt,name=total_bytes,proto3" json:"total_bytes,omitempty"`
	FramesSent      uint32 `protobuf:"varint,5,opt,name=frames_sent,proto3" json:"frames_sent,omitempty"`
	FramesDelivered uint32 `protobuf:"varint,6,opt,name=frames_delivered,proto3" json:"frames_delivered,omitempty"`
	FramesFailed    uint32 `protobuf:"varint,7,opt,name=frames_failed,proto3" json:"frames_failed,omitempty"`
	FramesDropped   uint32 `protobuf:"varint,8,opt,name=frames_dropped,proto3" json:"frames_dropped,omitempty"`
	SamplesDropped  uint32 `protobuf:"varint,9,opt,name=samples_dropped,proto3" json:"samples_dropped,omitempty"`
	Pending         bool   `protobuf:"varint,10,opt,name=pending,proto3" json:"pending,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Diagnostics) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Diagnostics) Reset() { *m = Diagnostics{} }

// String implements proto.Message.
func (m *Diagnostics) String() string { return proto.CompactTextString(m) }

// Encode serializes the event.
func (m *Diagnostics) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeDiagnostics parses a serialized event.
func DecodeDiagnostics(data []byte) (*Diagnostics, error) {
	m := &Diagnostics{}
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

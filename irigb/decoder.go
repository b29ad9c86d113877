// Package irigb decodes an IRIG-B timecode pulse-width stream into an
// aligned frame buffer, reconstructs BCD time fields, and drives a
// timeval.Time's Align to report drift.
package irigb

import (
	"github.com/sarchlab/relaylogic/timeval"
)

// SignalLen is the number of frames in one IRIG-B second.
const SignalLen = 100

// Frame is a decoded pulse-width symbol.
type Frame int8

const (
	FrameInvalid Frame = -1
	Bit0         Frame = 0
	Bit1         Frame = 1
	FrameRef     Frame = 9
)

// Decoder reconstructs wall-clock time from a stream of IRIG-B pulse-width
// samples and aligns an embedded timeval.Time, reporting drift on each
// successful decode.
type Decoder struct {
	Time timeval.Time

	bit0Max, bit1Max, refMax uint32

	frameIn       [SignalLen]Frame
	frameOut      [2 * SignalLen]Frame
	signalStart   int
	validSignal   bool
	bufferFlip    bool
	frameWrite    int
	frameDecodeWr int

	drift int64
}

// New constructs a Decoder for the given timer frequency and frame-timing
// tolerance (fraction, e.g. 0.05 for 5%).
func New(timerFreq uint32, tolerance float32) *Decoder {
	d := &Decoder{signalStart: -1}
	d.bit0Max = uint32(0.002 * float32(timerFreq) * (1 + tolerance))
	d.bit1Max = uint32(0.005 * float32(timerFreq) * (1 + tolerance))
	d.refMax = uint32(0.008 * float32(timerFreq) * (1 + tolerance))
	return d
}

// GetDrift returns the signed microsecond drift reported by the most recent
// successful DecodeFrames call.
func (d *Decoder) GetDrift() int64 { return d.drift }

// decodeFrame maps one raw pulse-width count to its frame symbol.
func (d *Decoder) decodeFrame(count uint16) Frame {
	switch {
	case uint32(count) < d.bit0Max:
		return Bit0
	case uint32(count) < d.bit1Max:
		return Bit1
	case uint32(count) < d.refMax:
		return FrameRef
	default:
		return FrameInvalid
	}
}

// Decode feeds a buffer of raw pulse-width samples through the frame
// decoder, the two-REF start detector, and the double-buffered aligner,
// triggering DecodeFrames whenever a full aligned half fills.
func (d *Decoder) Decode(samples []uint16) {
	for _, raw := range samples {
		decoded := d.decodeFrame(raw)
		d.frameIn[d.frameWrite] = decoded
		last := d.frameIn[(d.frameWrite-1+SignalLen)%SignalLen]

		if decoded == FrameRef && last == FrameRef {
			d.signalStart = d.frameWrite
			d.validSignal = true
		}

		if d.validSignal {
			var aligned int
			if d.frameWrite >= d.signalStart {
				aligned = d.frameWrite - d.signalStart
			} else {
				aligned = SignalLen - d.signalStart + d.frameWrite
			}
			outIdx := aligned
			if d.bufferFlip {
				outIdx += SignalLen
			}
			d.frameOut[outIdx] = decoded

			if d.frameDecodeWr == SignalLen-1 {
				if d.bufferFlip {
					d.decodeFrames(d.frameOut[SignalLen:])
				} else {
					d.decodeFrames(d.frameOut[:SignalLen])
				}
				d.bufferFlip = !d.bufferFlip
				d.frameDecodeWr = 0
			} else {
				d.frameDecodeWr++
			}
		}

		d.frameWrite = (d.frameWrite + 1) % SignalLen
	}
}

// structuralMarks lists the frame indices that must hold a fixed REF/Bit0
// value for a decoded half to be structurally valid, paired with that
// required value.
var structuralMarks = []struct {
	index int
	want  Frame
}{
	{0, FrameRef}, {5, Bit0}, {9, FrameRef},
	{14, Bit0}, {18, Bit0}, {19, FrameRef},
	{24, Bit0}, {27, Bit0}, {28, Bit0}, {29, FrameRef},
	{34, Bit0}, {39, FrameRef},
	{42, Bit0}, {43, Bit0}, {44, Bit0}, {45, Bit0}, {46, Bit0}, {47, Bit0}, {48, Bit0}, {49, FrameRef},
	{54, Bit0}, {59, FrameRef},
}

// decodeFrames validates structural markers and reconstructs the BCD time
// fields from one aligned 100-frame half, aligning d.Time on success.
func (d *Decoder) decodeFrames(frames []Frame) {
	for _, m := range structuralMarks {
		if frames[m.index] != m.want {
			d.invalidate()
			return
		}
	}

	second := fromBCD(frames, 1, 4, 1) + fromBCD(frames, 6, 8, 10)
	minute := fromBCD(frames, 10, 13, 1) + fromBCD(frames, 15, 17, 10)
	hour := fromBCD(frames, 20, 23, 1) + fromBCD(frames, 25, 26, 10)
	day := fromBCD(frames, 30, 33, 1) + fromBCD(frames, 35, 38, 10) + fromBCD(frames, 40, 41, 100)
	year := fromBCD(frames, 50, 53, 1) + fromBCD(frames, 55, 58, 10)

	d.drift = d.Time.Align(0, uint8(second), uint8(minute), uint8(hour), uint16(day), uint16(year))
}

// fromBCD reconstructs a binary-weighted field from frames[start:stop]
// (inclusive), each frame contributing one bit at position i-start.
func fromBCD(frames []Frame, start, stop, multiplier int) int {
	var tmp int
	for i := start; i <= stop; i++ {
		tmp += int(frames[i]) << uint(i-start)
	}
	return tmp * multiplier
}

// invalidate resets the within-half decode index, keeping the signal-start
// tracking intact so the aligner can resynchronize without waiting for a
// fresh pair of REF markers.
func (d *Decoder) invalidate() {
	d.frameDecodeWr = 0
}

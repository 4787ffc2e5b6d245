package sound

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
)

const bytesPerFrame = 4 // 16-bit little-endian stereo, as ebiten audio expects

// LowPassStream applies a one-pole low-pass filter to 16-bit stereo PCM.
// The cutoff and switch may be changed from the game loop while the audio
// goroutine reads.
type LowPassStream struct {
	src        io.ReadSeeker
	sampleRate float64

	enabled atomic.Bool
	cutoff  atomic.Uint64 // math.Float64bits(hz)

	// Filter memory per channel; only touched by Read and Seek.
	left, right float64
}

// NewLowPassStream wraps src. The filter starts disabled.
func NewLowPassStream(src io.ReadSeeker, sampleRate int) *LowPassStream {
	s := &LowPassStream{src: src, sampleRate: float64(sampleRate)}
	s.cutoff.Store(math.Float64bits(s.sampleRate / 2))
	return s
}

func (s *LowPassStream) SetEnabled(on bool) { s.enabled.Store(on) }

func (s *LowPassStream) SetCutoff(hz float64) {
	if hz <= 0 {
		hz = 1
	}
	s.cutoff.Store(math.Float64bits(hz))
}

// Cutoff returns the current cutoff in Hz.
func (s *LowPassStream) Cutoff() float64 { return math.Float64frombits(s.cutoff.Load()) }

func (s *LowPassStream) Read(p []byte) (int, error) {
	n, err := s.src.Read(p)
	if !s.enabled.Load() {
		return n, err
	}

	alpha := 1 - math.Exp(-2*math.Pi*s.Cutoff()/s.sampleRate)
	// A trailing partial frame passes through untouched.
	for i := 0; i+bytesPerFrame <= n; i += bytesPerFrame {
		l := float64(int16(binary.LittleEndian.Uint16(p[i:])))
		r := float64(int16(binary.LittleEndian.Uint16(p[i+2:])))
		s.left += alpha * (l - s.left)
		s.right += alpha * (r - s.right)
		binary.LittleEndian.PutUint16(p[i:], uint16(clampSample(s.left)))
		binary.LittleEndian.PutUint16(p[i+2:], uint16(clampSample(s.right)))
	}
	return n, err
}

func (s *LowPassStream) Seek(offset int64, whence int) (int64, error) {
	s.left, s.right = 0, 0
	return s.src.Seek(offset, whence)
}

func clampSample(v float64) int16 {
	return int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Round(v))))
}

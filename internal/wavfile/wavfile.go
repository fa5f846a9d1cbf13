// Package wavfile converts between PCM WAV files and planar float64
// samples in [-1, 1).
package wavfile

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const formatPCM = 1

// File is a decoded WAV file.
type File struct {
	Data       [][]float64
	SampleRate int
	BitDepth   int
}

// Frames returns the length of every channel.
func (f File) Frames() int {
	if len(f.Data) == 0 {
		return 0
	}
	return len(f.Data[0])
}

// Read decodes the PCM WAV file at path.
func Read(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("wavfile: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return File{}, fmt.Errorf("wavfile: invalid WAV file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return File{}, fmt.Errorf("wavfile: decode %s: %w", path, err)
	}

	format := dec.Format()
	channels := format.NumChannels
	bitDepth := int(dec.BitDepth)
	if channels < 1 {
		return File{}, fmt.Errorf("wavfile: %s: no channels", path)
	}
	frames := len(buf.Data) / channels
	if frames == 0 {
		return File{}, fmt.Errorf("wavfile: %s: no samples", path)
	}

	scale := FullScale(bitDepth)
	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = make([]float64, frames)
	}
	for i := range frames {
		for ch := range data {
			data[ch][i] = float64(buf.Data[i*channels+ch]) / scale
		}
	}

	return File{Data: data, SampleRate: format.SampleRate, BitDepth: bitDepth}, nil
}

// Write encodes planar samples as PCM at bitDepth, clipping to full
// scale.
func Write(path string, data [][]float64, sampleRate, bitDepth int) error {
	if len(data) == 0 {
		return fmt.Errorf("wavfile: %s: no channels", path)
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("wavfile: unsupported bit depth %d", bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavfile: %w", err)
	}

	channels := len(data)
	frames := len(data[0])
	scale := FullScale(bitDepth)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, frames*channels),
		SourceBitDepth: bitDepth,
	}
	for i := range frames {
		for ch := range data {
			buf.Data[i*channels+ch] = ToInt(data[ch][i], scale)
		}
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, formatPCM)
	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("wavfile: write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("wavfile: finalize %s: %w", path, err)
	}
	return f.Close()
}

// FullScale returns 2^(bitDepth-1), the magnitude of the most negative
// code.
func FullScale(bitDepth int) float64 {
	return math.Ldexp(1, bitDepth-1)
}

// ToInt rounds x to an integer code at the given full scale, clipping.
// NaN maps to 0.
func ToInt(x, scale float64) int {
	if math.IsNaN(x) {
		return 0
	}
	v := math.Round(x * scale)
	return int(min(max(v, -scale), scale-1))
}

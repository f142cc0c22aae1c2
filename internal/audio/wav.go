// Package audio frames raw linear PCM into a playable WAV container.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/porticus-lab/bionic-api/internal/apperr"
)

// Defaults for speech audio returned by the AI backends.
const (
	DefaultSampleRate  = 24000
	DefaultChannels    = 1
	DefaultSampleWidth = 2
)

// HeaderSize is the size of the canonical RIFF/WAVE header written by [Frame].
const HeaderSize = 44

const (
	fmtChunkSize = 16
	formatPCM    = 1
)

// Format describes a PCM stream. Zero fields take the package defaults.
type Format struct {
	SampleRate  int // Hz
	Channels    int
	SampleWidth int // bytes per sample; only 2 (16-bit) is supported
}

func (f Format) resolved() Format {
	if f.SampleRate == 0 {
		f.SampleRate = DefaultSampleRate
	}
	if f.Channels == 0 {
		f.Channels = DefaultChannels
	}
	if f.SampleWidth == 0 {
		f.SampleWidth = DefaultSampleWidth
	}
	return f
}

func (f Format) validate() error {
	if f.SampleRate < 0 || f.Channels < 0 {
		return fmt.Errorf("audio: invalid format %+v", f)
	}
	if f.SampleWidth != DefaultSampleWidth {
		return fmt.Errorf("audio: unsupported sample width %d", f.SampleWidth)
	}
	// ByteRate is a uint32 and NumChannels a uint16 in the header.
	blockAlign := int64(f.Channels) * int64(f.SampleWidth)
	if f.Channels > math.MaxUint16 || int64(f.SampleRate) > math.MaxUint32/blockAlign {
		return apperr.New(apperr.MalformedAudioData,
			fmt.Sprintf("audio format out of range: %d Hz, %d channels", f.SampleRate, f.Channels))
	}
	return nil
}

// Header is the on-disk layout of a canonical 44-byte WAV header.
type Header struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

func newHeader(f Format, dataSize int) Header {
	blockAlign := f.Channels * f.SampleWidth
	return Header{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(HeaderSize - 8 + dataSize),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: fmtChunkSize,
		AudioFormat:   formatPCM,
		NumChannels:   uint16(f.Channels),
		SampleRate:    uint32(f.SampleRate),
		ByteRate:      uint32(f.SampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: uint16(f.SampleWidth * 8),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(dataSize),
	}
}

// Frame wraps signed 16-bit little-endian PCM in a WAV container.
//
// The samples are decoded and re-encoded rather than copied so that a buffer
// that is not a whole number of samples is rejected with
// [apperr.MalformedAudioData] instead of being truncated. The output is
// always exactly HeaderSize+len(pcm) bytes.
func Frame(pcm []byte, f Format) ([]byte, error) {
	f = f.resolved()
	if err := f.validate(); err != nil {
		return nil, err
	}
	if len(pcm)%f.SampleWidth != 0 {
		return nil, apperr.New(apperr.MalformedAudioData,
			fmt.Sprintf("PCM data length %d is not a multiple of the %d-byte sample width", len(pcm), f.SampleWidth))
	}
	if int64(len(pcm)) > math.MaxUint32-(HeaderSize-8) {
		return nil, apperr.New(apperr.MalformedAudioData, "PCM data too large for a WAV container")
	}

	samples := make([]int16, len(pcm)/f.SampleWidth)
	if err := binary.Read(bytes.NewReader(pcm), binary.LittleEndian, samples); err != nil {
		return nil, apperr.Wrap(apperr.MalformedAudioData, "decoding PCM samples", err)
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(pcm))
	if err := binary.Write(&buf, binary.LittleEndian, newHeader(f, len(pcm))); err != nil {
		return nil, fmt.Errorf("audio: writing header: %w", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("audio: writing samples: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseHeader reads the canonical header at the start of wav.
func ParseHeader(wav []byte) (Header, error) {
	var h Header
	if len(wav) < HeaderSize {
		return h, fmt.Errorf("audio: %d bytes is shorter than a WAV header", len(wav))
	}
	if err := binary.Read(bytes.NewReader(wav[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return h, fmt.Errorf("audio: reading header: %w", err)
	}
	if string(h.ChunkID[:]) != "RIFF" || string(h.Format[:]) != "WAVE" {
		return h, fmt.Errorf("audio: not a RIFF/WAVE stream")
	}
	return h, nil
}

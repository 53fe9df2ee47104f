package audio

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// DefaultPageSize is the PCM page size used on the wire: 32 KiB.
const DefaultPageSize = 32_768

// riffChunkHeaderSize is the size of a RIFF chunk tag plus its length field.
const riffChunkHeaderSize = 8

// Source is the audio payload streamed by every listener. It is derived once
// at startup and shared read-only; nothing mutates it afterwards.
type Source struct {
	Header         []byte // container bytes through the data chunk tag and size field
	PCM            []byte // sample data following the data chunk size field
	SampleRate     int
	Channels       int
	BitsPerSample  int
	BytesPerSecond int // SampleRate * Channels * BitsPerSample/8
}

// LoadSource reads and validates a WAV file and splits it into the container
// header and PCM payload. All failures here are fatal startup errors; nothing
// is retried.
func LoadSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("unrecognized container format in %s: %v", path, decoder.Err())
	}

	sampleRate := int(decoder.SampleRate)
	channels := int(decoder.NumChans)
	bitsPerSample := int(decoder.BitDepth)

	bytesPerSecond := sampleRate * channels * bitsPerSample / 8
	if bytesPerSecond <= 0 {
		return nil, fmt.Errorf("non-positive byte rate in %s: rate=%d channels=%d bits=%d",
			path, sampleRate, channels, bitsPerSample)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", path, err)
	}

	header, pcm, err := SplitContainer(data)
	if err != nil {
		return nil, fmt.Errorf("invalid source file %s: %w", path, err)
	}

	return &Source{
		Header:         header,
		PCM:            pcm,
		SampleRate:     sampleRate,
		Channels:       channels,
		BitsPerSample:  bitsPerSample,
		BytesPerSecond: bytesPerSecond,
	}, nil
}

// SplitContainer walks the RIFF chunk list and splits the container at the
// data chunk: the header is everything through the data tag and its 4-byte
// size field, the PCM payload is what follows.
func SplitContainer(data []byte) (header, pcm []byte, err error) {
	if len(data) < 12 {
		return nil, nil, fmt.Errorf("container too short: need at least 12 bytes, got %d", len(data))
	}
	if string(data[0:4]) != "RIFF" {
		return nil, nil, fmt.Errorf("missing RIFF tag")
	}
	if string(data[8:12]) != "WAVE" {
		return nil, nil, fmt.Errorf("missing WAVE tag")
	}

	// Chunks start after the 12-byte RIFF preamble.
	offset := 12
	for offset+riffChunkHeaderSize <= len(data) {
		tag := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))

		if tag == "data" {
			split := offset + riffChunkHeaderSize
			pcm := data[split:]
			if size < len(pcm) {
				// Trailing chunks after data are not part of the sample payload.
				pcm = pcm[:size]
			}
			return data[:split], pcm, nil
		}

		// Chunk bodies are word-aligned.
		offset += riffChunkHeaderSize + size
		if size%2 != 0 {
			offset++
		}
	}

	return nil, nil, fmt.Errorf("no data chunk found")
}

// Duration returns the playback length of the PCM payload in seconds.
func (s *Source) Duration() float64 {
	return float64(len(s.PCM)) / float64(s.BytesPerSecond)
}

// PageCount returns the number of pages per cycle for the given page size,
// counting a short final page.
func (s *Source) PageCount(pageSize int) int {
	return (len(s.PCM) + pageSize - 1) / pageSize
}

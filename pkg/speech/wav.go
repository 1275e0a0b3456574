package speech

import "encoding/binary"

// Capture format expected by the transcription service.
const (
	SampleRate = 16000
	BitDepth   = 16
	Channels   = 1
)

// EncodeWAV packages 16-bit PCM samples into a single-channel 16 kHz RIFF
// WAV container.
func EncodeWAV(samples []int16) []byte {
	const headerSize = 44
	dataSize := len(samples) * 2
	buf := make([]byte, 0, headerSize+dataSize)

	u16 := func(v uint16) []byte {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], v)
		return b[:]
	}
	u32 := func(v uint32) []byte {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		return b[:]
	}

	byteRate := SampleRate * Channels * BitDepth / 8
	blockAlign := Channels * BitDepth / 8

	buf = append(buf, "RIFF"...)
	buf = append(buf, u32(uint32(36+dataSize))...)
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = append(buf, u32(16)...) // PCM fmt chunk size
	buf = append(buf, u16(1)...)  // PCM format tag
	buf = append(buf, u16(Channels)...)
	buf = append(buf, u32(SampleRate)...)
	buf = append(buf, u32(uint32(byteRate))...)
	buf = append(buf, u16(uint16(blockAlign))...)
	buf = append(buf, u16(BitDepth)...)
	buf = append(buf, "data"...)
	buf = append(buf, u32(uint32(dataSize))...)
	for _, s := range samples {
		buf = append(buf, u16(uint16(s))...)
	}
	return buf
}

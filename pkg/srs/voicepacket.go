package srs

import (
	"encoding/binary"
	"fmt"
	"math"
)

// UDP voice packet layout, all little-endian:
//
//	[uint16 packet length] [uint16 audio length] [uint16 frequency length]
//	[audio] [frequencies: float64 + modulation byte + encryption byte each]
//	[uint32 unit id] [uint64 packet id] [byte retransmission count]
//	[22-byte transmission GUID] [22-byte client GUID]

const (
	guidLength         = 22
	voiceHeaderLength  = 6
	frequencyLength    = 10
	voiceTrailerLength = 4 + 8 + 1 + guidLength + guidLength
	minVoicePacketSize = voiceHeaderLength + frequencyLength + voiceTrailerLength
)

// Frequency is one radio a voice packet is transmitted on.
type Frequency struct {
	Frequency  float64
	Modulation byte
	Encryption byte
}

// VoicePacket is one UDP voice datagram. Audio is a single Opus frame.
type VoicePacket struct {
	Audio            []byte
	Frequencies      []Frequency
	UnitID           uint32
	PacketID         uint64
	Retransmissions  byte
	TransmissionGUID string
	ClientGUID       string
}

// Encode renders the packet in wire layout.
func (p *VoicePacket) Encode() []byte {
	audioLen := len(p.Audio)
	freqLen := len(p.Frequencies) * frequencyLength
	total := voiceHeaderLength + audioLen + freqLen + voiceTrailerLength

	buf := make([]byte, 0, total)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(total))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(audioLen))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(freqLen))
	buf = append(buf, p.Audio...)
	for _, f := range p.Frequencies {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f.Frequency))
		buf = append(buf, f.Modulation, f.Encryption)
	}
	buf = binary.LittleEndian.AppendUint32(buf, p.UnitID)
	buf = binary.LittleEndian.AppendUint64(buf, p.PacketID)
	buf = append(buf, p.Retransmissions)
	buf = append(buf, padGUID(p.TransmissionGUID)...)
	buf = append(buf, padGUID(p.ClientGUID)...)
	return buf
}

// DecodeVoicePacket parses a UDP datagram. Datagrams shorter than the
// smallest valid voice packet (server pings echo the bare GUID) return an
// error and should be dropped by the caller.
func DecodeVoicePacket(data []byte) (*VoicePacket, error) {
	if len(data) < minVoicePacketSize {
		return nil, fmt.Errorf("voice packet too short: %d bytes", len(data))
	}

	audioLen := int(binary.LittleEndian.Uint16(data[2:4]))
	freqLen := int(binary.LittleEndian.Uint16(data[4:6]))
	if freqLen%frequencyLength != 0 {
		return nil, fmt.Errorf("frequency segment length %d is not a multiple of %d", freqLen, frequencyLength)
	}
	if want := voiceHeaderLength + audioLen + freqLen + voiceTrailerLength; len(data) < want {
		return nil, fmt.Errorf("voice packet truncated: %d bytes, want %d", len(data), want)
	}

	p := &VoicePacket{
		Audio: append([]byte(nil), data[voiceHeaderLength:voiceHeaderLength+audioLen]...),
	}
	off := voiceHeaderLength + audioLen
	for i := 0; i < freqLen/frequencyLength; i++ {
		p.Frequencies = append(p.Frequencies, Frequency{
			Frequency:  math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8])),
			Modulation: data[off+8],
			Encryption: data[off+9],
		})
		off += frequencyLength
	}
	p.UnitID = binary.LittleEndian.Uint32(data[off : off+4])
	p.PacketID = binary.LittleEndian.Uint64(data[off+4 : off+12])
	p.Retransmissions = data[off+12]
	p.TransmissionGUID = string(data[off+13 : off+13+guidLength])
	p.ClientGUID = string(data[off+13+guidLength : off+13+2*guidLength])
	return p, nil
}

func padGUID(guid string) []byte {
	b := make([]byte, guidLength)
	copy(b, guid)
	return b
}

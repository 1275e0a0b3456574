// Package ogg demuxes logical packets from an Ogg container.
//
// Only the page structure is interpreted: packets are reassembled from the
// segment lacing table, including packets spanning page boundaries. Page
// checksums are not verified; the data comes from an HTTP response body,
// not a lossy transport.
package ogg

import (
	"bufio"
	"fmt"
	"io"
)

const (
	capturePattern = "OggS"
	headerSize     = 27
)

// Reader returns the logical packets of an Ogg stream in order.
type Reader struct {
	br *bufio.Reader

	// packets completed but not yet returned, oldest first.
	packets [][]byte
	// partial holds a packet continuing onto the next page.
	partial []byte
}

// NewReader creates a packet reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Next returns the next logical packet. It returns io.EOF at the end of the
// stream.
func (r *Reader) Next() ([]byte, error) {
	for len(r.packets) == 0 {
		if err := r.readPage(); err != nil {
			if err == io.EOF && len(r.partial) > 0 {
				// Truncated stream: drop the unterminated packet.
				r.partial = nil
			}
			return nil, err
		}
	}
	pkt := r.packets[0]
	r.packets = r.packets[1:]
	return pkt, nil
}

func (r *Reader) readPage() error {
	var header [headerSize]byte
	if _, err := io.ReadFull(r.br, header[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return io.EOF
		}
		return err
	}
	if string(header[0:4]) != capturePattern {
		return fmt.Errorf("ogg: bad capture pattern %q", header[0:4])
	}
	if header[4] != 0 {
		return fmt.Errorf("ogg: unsupported stream structure version %d", header[4])
	}

	lacing := make([]byte, int(header[26]))
	if _, err := io.ReadFull(r.br, lacing); err != nil {
		return fmt.Errorf("ogg: read lacing table: %w", err)
	}

	payloadSize := 0
	for _, l := range lacing {
		payloadSize += int(l)
	}
	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(r.br, payload); err != nil {
		return fmt.Errorf("ogg: read page payload: %w", err)
	}

	// A lacing value of 255 continues the packet into the next segment;
	// any smaller value terminates it.
	off := 0
	for _, l := range lacing {
		r.partial = append(r.partial, payload[off:off+int(l)]...)
		off += int(l)
		if l < 255 {
			r.packets = append(r.packets, r.partial)
			r.partial = nil
		}
	}
	return nil
}

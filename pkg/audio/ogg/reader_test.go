package ogg

import (
	"bytes"
	"io"
	"testing"
)

// page builds an Ogg page for the given segments. A segment of exactly 255
// bytes continues the packet into the following segment (or page).
func page(segments ...[]byte) []byte {
	var b bytes.Buffer
	b.WriteString("OggS")
	b.Write(make([]byte, 22)) // version, type, granule, serial, seq, crc
	b.WriteByte(byte(len(segments)))
	for _, s := range segments {
		b.WriteByte(byte(len(s)))
	}
	for _, s := range segments {
		b.Write(s)
	}
	return b.Bytes()
}

func TestNextSinglePage(t *testing.T) {
	p1 := []byte("OpusHead....")
	p2 := []byte("OpusTags....")
	p3 := []byte{0x78, 0x01, 0x02}
	r := NewReader(bytes.NewReader(page(p1, p2, p3)))

	for i, want := range [][]byte{p1, p2, p3} {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next() #%d error: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Next() #%d = %q, want %q", i, got, want)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() after stream end = %v, want io.EOF", err)
	}
}

func TestNextPacketSpanningSegments(t *testing.T) {
	// One logical packet of 300 bytes: segments of 255 and 45.
	big := bytes.Repeat([]byte{0xab}, 300)
	stream := page(big[:255], big[255:])
	r := NewReader(bytes.NewReader(stream))

	got, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if !bytes.Equal(got, big) {
		t.Errorf("Next() returned %d bytes, want %d", len(got), len(big))
	}
}

func TestNextPacketSpanningPages(t *testing.T) {
	// A packet whose final lacing value lands on the next page.
	big := bytes.Repeat([]byte{0xcd}, 255+10)
	small := []byte{0x01}
	var stream bytes.Buffer
	stream.Write(page(big[:255]))        // 255 => continued
	stream.Write(page(big[255:], small)) // 10 terminates, then small packet
	r := NewReader(bytes.NewReader(stream.Bytes()))

	got, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if !bytes.Equal(got, big) {
		t.Errorf("spanning packet = %d bytes, want %d", len(got), len(big))
	}
	got, err = r.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if !bytes.Equal(got, small) {
		t.Errorf("trailing packet = %v, want %v", got, small)
	}
}

func TestNextTruncatedStreamDropsPartial(t *testing.T) {
	big := bytes.Repeat([]byte{0xee}, 255)
	r := NewReader(bytes.NewReader(page(big))) // continued packet, never terminated
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() on truncated stream = %v, want io.EOF", err)
	}
}

func TestNextBadCapturePattern(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("NotAnOggStreamAtAll........")))
	if _, err := r.Next(); err == nil || err == io.EOF {
		t.Errorf("Next() = %v, want capture pattern error", err)
	}
}

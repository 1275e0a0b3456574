package tacview

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hash/crc64"
	"io"
	"net"
	"strconv"
	"strings"
	"unicode/utf16"
)

const (
	lowLevelProtocol  = "XtraLib.Stream.0"
	highLevelProtocol = "Tacview.RealTimeTelemetry.0"
)

// ErrParse wraps per-line decode failures. Readers log these and keep
// consuming the stream.
var ErrParse = errors.New("tacview: parse error")

// Reader decodes ACMI records from a real-time telemetry connection.
type Reader struct {
	conn net.Conn
	br   *bufio.Reader
}

// Connect dials a Tacview real-time telemetry server and performs the
// handshake. The password may be empty.
func Connect(ctx context.Context, addr, username, password string) (*Reader, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tacview: dial %s: %w", addr, err)
	}
	r := &Reader{conn: conn, br: bufio.NewReader(conn)}
	if err := r.handshake(username, password); err != nil {
		conn.Close()
		return nil, err
	}
	return r, nil
}

// handshake reads the server's null-terminated handshake block, then sends
// ours: protocol lines, username, and the hashed password.
func (r *Reader) handshake(username, password string) error {
	server, err := r.br.ReadString(0)
	if err != nil {
		return fmt.Errorf("tacview: read server handshake: %w", err)
	}
	if !strings.HasPrefix(server, lowLevelProtocol) {
		return fmt.Errorf("tacview: unexpected server handshake %q", strings.TrimRight(server, "\x00"))
	}

	client := strings.Join([]string{
		lowLevelProtocol,
		highLevelProtocol,
		username,
		hashPassword(password),
	}, "\n") + "\x00"
	if _, err := io.WriteString(r.conn, client); err != nil {
		return fmt.Errorf("tacview: send client handshake: %w", err)
	}
	return nil
}

// hashPassword returns the decimal CRC-64 (ISO) of the UTF-16LE encoded
// password, or "0" for an empty password, per the real-time telemetry
// handshake convention.
func hashPassword(password string) string {
	if password == "" {
		return "0"
	}
	units := utf16.Encode([]rune(password))
	buf := make([]byte, 0, len(units)*2)
	for _, u := range units {
		buf = append(buf, byte(u), byte(u>>8))
	}
	sum := crc64.Checksum(buf, crc64.MakeTable(crc64.ISO))
	return strconv.FormatUint(sum, 10)
}

// Next returns the next decoded record.
//
// Per-line decode failures are returned wrapped in ErrParse so the caller
// can log and continue; any transport failure (including a closed
// connection) is reported as io.EOF to end the stream.
func (r *Reader) Next() (Record, error) {
	for {
		line, err := r.readLogicalLine()
		if err != nil {
			return nil, io.EOF
		}
		rec, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if rec == nil {
			continue
		}
		return rec, nil
	}
}

// readLogicalLine reads one line, joining backslash-terminated
// continuations.
func (r *Reader) readLogicalLine() (string, error) {
	var sb strings.Builder
	for {
		line, err := r.br.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.HasSuffix(line, "\\") && !strings.HasSuffix(line, "\\\\") {
			sb.WriteString(line[:len(line)-1])
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(line)
		return sb.String(), nil
	}
}

// Close closes the underlying connection, unblocking a pending Next.
func (r *Reader) Close() error {
	return r.conn.Close()
}

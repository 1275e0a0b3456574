// Package srs is a minimal SimpleRadio-Standalone client: a TCP control
// connection that announces the bot as an external AWACS radio, and a UDP
// voice connection carrying Opus frames both ways.
package srs

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pbzweihander/magic-gci-bot/pkg/queue"
)

const (
	awacsUnitID   = 100000001
	awacsUnitName = "External AWACS"

	// pingInterval is how often the bare client GUID is sent over UDP so
	// the server learns and keeps our voice address.
	pingInterval = 15 * time.Second
)

// ClientConfig carries everything needed to join an SRS server.
type ClientConfig struct {
	// Address is the server's host:port; TCP and UDP use the same port.
	Address string
	// Name shown in the server's client list.
	Name string
	// Coalition is the SRS coalition id (1 red, 2 blue).
	Coalition int
	// Frequency in Hz of the single AM radio the bot guards.
	Frequency float64
}

// RadioClient is a connected SRS client. Inbound voice packets arrive on
// Received; outbound frames go through Transmit. The control and voice
// loops must be running for either direction to work.
type RadioClient struct {
	logger *slog.Logger
	cfg    ClientConfig
	guid   string

	control net.Conn
	voice   *net.UDPConn

	packetID atomic.Uint64
	received *queue.Queue[*VoicePacket]
}

// NewGUID returns a fresh SRS client GUID: 22 characters of URL-safe
// base64 over random UUID bytes.
func NewGUID() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// Connect joins the server: dials TCP and UDP, then announces the client
// with a SYNC message. The returned client's loops are not yet running.
func Connect(ctx context.Context, logger *slog.Logger, cfg ClientConfig) (*RadioClient, error) {
	var d net.Dialer
	control, err := d.DialContext(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("dial SRS control: %w", err)
	}

	udpAddr, err := net.ResolveUDPAddr("udp", cfg.Address)
	if err != nil {
		control.Close()
		return nil, fmt.Errorf("resolve SRS voice address: %w", err)
	}
	voice, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		control.Close()
		return nil, fmt.Errorf("dial SRS voice: %w", err)
	}

	c := &RadioClient{
		logger:   logger,
		cfg:      cfg,
		guid:     NewGUID(),
		control:  control,
		voice:    voice,
		received: queue.New[*VoicePacket](),
	}
	if err := c.send(syncMessage(c.guid, cfg.Name, cfg.Coalition, cfg.Frequency)); err != nil {
		c.Close()
		return nil, fmt.Errorf("send SRS sync: %w", err)
	}
	logger.Info("connected to SRS server", "address", cfg.Address, "guid", c.guid)
	return c, nil
}

// Received is the queue of inbound voice packets. It write-closes when the
// voice connection ends.
func (c *RadioClient) Received() *queue.Queue[*VoicePacket] {
	return c.received
}

func (c *RadioClient) send(msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = c.control.Write(append(b, '\n'))
	return err
}

// RunControl reads control messages until the connection closes. The bot
// has no use for them beyond keeping the connection alive, so they are
// decoded only far enough to be logged at debug level.
func (c *RadioClient) RunControl(ctx context.Context) {
	scanner := bufio.NewScanner(c.control)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var msg Message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			c.logger.Warn("malformed SRS control message", "error", err)
			continue
		}
		c.logger.Debug("SRS control message", "msg_type", int(msg.MsgType))
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		c.logger.Error("SRS control connection failed", "error", err)
	}
	c.logger.Info("SRS control connection closed")
}

// RunVoice receives UDP voice packets and pushes them onto Received until
// the connection closes. Pings and our own transmissions are dropped.
// On a graceful stream end the queue write-closes; on cancellation it
// closes with the context's error so consumers can drop partial work.
func (c *RadioClient) RunVoice(ctx context.Context) {
	go c.pingLoop(ctx)

	buf := make([]byte, 65536)
	for {
		n, err := c.voice.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				c.received.CloseWithError(ctx.Err())
			} else {
				c.logger.Error("SRS voice connection failed", "error", err)
				c.received.CloseWrite()
			}
			return
		}
		if n <= guidLength {
			// Server ping echoing a GUID.
			continue
		}
		packet, err := DecodeVoicePacket(buf[:n])
		if err != nil {
			c.logger.Warn("malformed SRS voice packet", "error", err)
			continue
		}
		if packet.ClientGUID == c.guid {
			continue
		}
		c.received.Push(packet)
	}
}

func (c *RadioClient) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		if _, err := c.voice.Write([]byte(c.guid)); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Transmit sends one Opus frame on the configured frequency.
func (c *RadioClient) Transmit(frame []byte) error {
	packet := VoicePacket{
		Audio: frame,
		Frequencies: []Frequency{{
			Frequency:  c.cfg.Frequency,
			Modulation: ModulationAM,
		}},
		UnitID:           awacsUnitID,
		PacketID:         c.packetID.Add(1),
		TransmissionGUID: c.guid,
		ClientGUID:       c.guid,
	}
	if _, err := c.voice.Write(packet.Encode()); err != nil {
		return fmt.Errorf("send voice packet: %w", err)
	}
	return nil
}

// Flush marks the end of a transmission. UDP is unbuffered, so there is
// nothing to drain; the method exists to satisfy the transmitter contract.
func (c *RadioClient) Flush() error {
	return nil
}

// Close tears down both connections. Safe to call more than once.
func (c *RadioClient) Close() error {
	err := c.control.Close()
	if uerr := c.voice.Close(); err == nil {
		err = uerr
	}
	return err
}

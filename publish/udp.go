package publish

import (
	"net"

	"github.com/pion/rtp"
	"github.com/pkg/errors"
)

// UDPPacketWriter sends marshaled RTP packets over a connected UDP
// socket. UDP keeps the write path non-blocking and best-effort, which
// is exactly the delivery contract of the output stream.
type UDPPacketWriter struct {
	conn net.Conn
}

// NewUDPPacketWriter wraps a connected socket.
func NewUDPPacketWriter(conn net.Conn) (*UDPPacketWriter, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	return &UDPPacketWriter{conn: conn}, nil
}

// WritePacket implements PacketWriter.
func (w *UDPPacketWriter) WritePacket(pkt *rtp.Packet) error {
	buf, err := pkt.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshaling RTP packet")
	}
	if _, err := w.conn.Write(buf); err != nil {
		return errors.Wrap(err, "writing RTP packet")
	}
	return nil
}

// Close closes the underlying socket.
func (w *UDPPacketWriter) Close() error {
	return w.conn.Close()
}

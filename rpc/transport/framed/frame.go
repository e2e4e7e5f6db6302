package framed

import (
	"encoding/binary"
	"errors"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
	"io"
	"net"
)

// Logger is the package level logger
var Logger = logger.GetLogger("transport")

const (
	// frameMagic opens every frame. A reader that does not find it verbatim
	// is not looking at a frame boundary and must fail instead of
	// interpreting noise as a length.
	frameMagic = "dRPC/1"

	// headerSize is the fixed number of bytes before the payload: the magic
	// tag plus the 4-byte little-endian payload length.
	headerSize = len(frameMagic) + 4

	// DefaultMaxFrameSize is the payload size limit applied by the
	// constructors in this package.
	DefaultMaxFrameSize = 64 << 20 // 64 MiB
)

// writeFrame writes one frame to w with the format:
// - 6 bytes: magic tag ("dRPC/1")
// - 4 bytes: payload length (uint32, little endian)
// - N bytes: payload
func writeFrame(w io.Writer, payload []byte) error {
	header := make([]byte, headerSize)
	copy(header, frameMagic)
	binary.LittleEndian.PutUint32(header[len(frameMagic):], uint32(len(payload)))

	b := net.Buffers{header, payload}
	_, err := b.WriteTo(w)
	return err
}

// readFrame reads one frame from r and returns its payload.
//
// EOF while expecting header or payload bytes means the peer closed the
// channel and maps to TransportEOF. A wrong magic tag or a declared length
// above maxSize maps to SerializationError. Any other read fault maps to
// TransportError.
func readFrame(r io.Reader, maxSize uint32) ([]byte, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, common.NewRPCErrorWithCause(common.TransportEOF, "channel closed while reading frame header", err)
		}
		return nil, common.NewRPCErrorWithCause(common.TransportError, "failed to read frame header", err)
	}

	if string(header[:len(frameMagic)]) != frameMagic {
		Logger.Warningf("stream out of sync, expected frame magic, got % X", header[:len(frameMagic)])
		return nil, common.Errorf(common.SerializationError, "bad frame magic % X", header[:len(frameMagic)])
	}

	length := binary.LittleEndian.Uint32(header[len(frameMagic):])
	if length > maxSize {
		return nil, common.Errorf(common.SerializationError, "frame payload of %d bytes exceeds limit of %d", length, maxSize)
	}
	if length == 0 {
		return []byte{}, nil
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, common.NewRPCErrorWithCause(common.TransportEOF, "channel closed while reading frame payload", err)
		}
		return nil, common.NewRPCErrorWithCause(common.TransportError, "failed to read frame payload", err)
	}
	return payload, nil
}

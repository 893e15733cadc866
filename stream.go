package byte_fifo_go

import (
	"io"
)

// Stream exposes a Buffer through the io interfaces.
//
// Read returns io.EOF while the buffer is empty; this only means "nothing
// buffered right now", later writes make data available again. Write returns
// io.ErrShortWrite when the buffer could not take all of p.
type Stream struct {
	buffer Buffer
}

func NewStream(buffer Buffer) *Stream {
	return &Stream{buffer: buffer}
}

func (stream *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := stream.buffer.ReadInto(p)
	if n == 0 {
		return 0, io.EOF
	}

	return n, nil
}

func (stream *Stream) Write(p []byte) (int, error) {
	n := stream.buffer.Write(p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}

	return n, nil
}

func (stream *Stream) ReadByte() (byte, error) {
	var p [1]byte
	if stream.buffer.ReadInto(p[:]) == 0 {
		return 0, io.EOF
	}

	return p[0], nil
}

func (stream *Stream) WriteByte(c byte) error {
	if stream.buffer.Write([]byte{c}) == 0 {
		return ErrFull
	}

	return nil
}

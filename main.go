package byte_fifo_go

import (
	"github.com/pkg/errors"
)

// RingBuffer is a fixed capacity FIFO of bytes.
//
// The unread bytes live in data starting at start and wrapping around the end
// of data, so they occupy at most two physical segments. RingBuffer is not
// safe for concurrent use; see LockingRingBuffer.
type RingBuffer struct {
	data  []byte
	start int // Physical index of the oldest unread byte
	count int
}

// New returns an empty buffer able to hold capacity bytes.
func New(capacity int) (*RingBuffer, error) {
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "capacity %d is less than 1", capacity)
	}

	return &RingBuffer{
		data:  make([]byte, capacity),
		start: 0,
		count: 0,
	}, nil
}

// Appends the leading bytes of p that fit and returns how many were taken.
func (buffer *RingBuffer) Write(p []byte) int {
	bufferCap := len(buffer.data)
	requestedSize := min(len(p), bufferCap-buffer.count)

	if requestedSize == 0 {
		return 0
	}

	bufferWritePos := (buffer.start + buffer.count) % bufferCap

	var bytesWritten int
	if bufferWritePos+requestedSize <= bufferCap {
		bytesWritten = copy(buffer.data[bufferWritePos:], p[:requestedSize])
	} else {
		firstPart := bufferCap - bufferWritePos
		a := copy(buffer.data[bufferWritePos:], p[:firstPart])
		b := copy(buffer.data[0:], p[firstPart:requestedSize])
		bytesWritten = a + b
	}

	buffer.count += bytesWritten

	return bytesWritten
}

// Removes and returns up to n of the oldest bytes. A negative n reads
// everything that is buffered.
func (buffer *RingBuffer) Read(n int) []byte {
	if n < 0 || n > buffer.count {
		n = buffer.count
	}

	p := make([]byte, n)
	buffer.ReadInto(p)

	return p
}

// Removes and returns every buffered byte.
func (buffer *RingBuffer) ReadAll() []byte {
	return buffer.Read(-1)
}

// Moves up to len(p) of the oldest bytes into p and returns the count.
func (buffer *RingBuffer) ReadInto(p []byte) int {
	bytesRead := buffer.peek(p)
	buffer.discard(bytesRead)

	return bytesRead
}

// Resize swaps the storage for one of the given capacity. The buffered bytes
// are copied in order to the front of the new storage. The buffer is left
// untouched on error.
func (buffer *RingBuffer) Resize(capacity int) error {
	if capacity < 1 {
		return errors.Wrapf(ErrInvalidArgument, "capacity %d is less than 1", capacity)
	}

	if capacity < buffer.count {
		return errors.Wrapf(ErrInvalidArgument, "capacity %d is less than buffered length %d", capacity, buffer.count)
	}

	data := make([]byte, capacity)
	buffer.peek(data)

	buffer.data = data
	buffer.start = 0

	return nil
}

func (buffer *RingBuffer) Len() int {
	return buffer.count
}

func (buffer *RingBuffer) Cap() int {
	return len(buffer.data)
}

func (buffer *RingBuffer) Free() int {
	return len(buffer.data) - buffer.count
}

func (buffer *RingBuffer) IsEmpty() bool {
	return buffer.count == 0
}

func (buffer *RingBuffer) IsFull() bool {
	return buffer.count == len(buffer.data)
}

// HasData reports whether at least one unread byte is buffered.
func (buffer *RingBuffer) HasData() bool {
	return !buffer.IsEmpty()
}

// Copies up to len(p) of the oldest bytes into p without consuming them.
func (buffer *RingBuffer) peek(p []byte) int {
	readSize := min(len(p), buffer.count)
	if readSize == 0 {
		return 0
	}

	bufferCap := len(buffer.data)

	var bytesRead int
	if buffer.start+readSize <= bufferCap {
		bytesRead = copy(p, buffer.data[buffer.start:buffer.start+readSize])
	} else {
		firstPart := bufferCap - buffer.start
		a := copy(p, buffer.data[buffer.start:])
		b := copy(p[firstPart:], buffer.data[0:readSize-firstPart])
		bytesRead = a + b
	}

	return bytesRead
}

func (buffer *RingBuffer) discard(n int) {
	buffer.start = (buffer.start + n) % len(buffer.data)
	buffer.count -= n
}

package byte_fifo_go

import (
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Option configures a LockingRingBuffer.
type Option func(*LockingRingBuffer)

// WithLogger sets the logger used to report resizes and Close.
func WithLogger(logger *zap.Logger) Option {
	return func(buffer *LockingRingBuffer) {
		buffer.logger = logger
	}
}

// LockingRingBuffer wraps a RingBuffer so that every call runs under a single
// mutex. Calls never wait for space or data: a full buffer still accepts 0
// bytes and an empty one still returns nothing.
//
// After Close the buffer behaves as if it had no capacity: writes accept
// nothing, reads return nothing and Resize fails with ErrClosed.
type LockingRingBuffer struct {
	ring *RingBuffer
	mu   sync.Mutex

	logger *zap.Logger

	closed atomic.Bool
}

func NewLockingRingBuffer(capacity int, opts ...Option) (*LockingRingBuffer, error) {
	ring, err := New(capacity)
	if err != nil {
		return nil, err
	}

	buffer := &LockingRingBuffer{
		ring:   ring,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(buffer)
	}

	return buffer, nil
}

func (buffer *LockingRingBuffer) Write(p []byte) int {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		return 0
	}

	return buffer.ring.Write(p)
}

func (buffer *LockingRingBuffer) Read(n int) []byte {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		return []byte{}
	}

	return buffer.ring.Read(n)
}

func (buffer *LockingRingBuffer) ReadAll() []byte {
	return buffer.Read(-1)
}

func (buffer *LockingRingBuffer) ReadInto(p []byte) int {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		return 0
	}

	return buffer.ring.ReadInto(p)
}

func (buffer *LockingRingBuffer) Resize(capacity int) error {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		return ErrClosed
	}

	previous := buffer.ring.Cap()

	if err := buffer.ring.Resize(capacity); err != nil {
		buffer.logger.Warn("resize rejected",
			zap.Int("capacity", previous),
			zap.Int("requested", capacity),
			zap.Int("length", buffer.ring.Len()),
			zap.Error(err),
		)
		return err
	}

	buffer.logger.Debug("resized",
		zap.Int("from", previous),
		zap.Int("to", capacity),
		zap.Int("length", buffer.ring.Len()),
	)

	return nil
}

func (buffer *LockingRingBuffer) Len() int {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		return 0
	}

	return buffer.ring.Len()
}

func (buffer *LockingRingBuffer) Cap() int {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		return 0
	}

	return buffer.ring.Cap()
}

func (buffer *LockingRingBuffer) Free() int {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		return 0
	}

	return buffer.ring.Free()
}

func (buffer *LockingRingBuffer) IsEmpty() bool {
	return buffer.Len() == 0
}

// A closed buffer has no capacity left, so it reports full.
func (buffer *LockingRingBuffer) IsFull() bool {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		return true
	}

	return buffer.ring.IsFull()
}

func (buffer *LockingRingBuffer) HasData() bool {
	return !buffer.IsEmpty()
}

// Close releases the storage. It is safe to call more than once.
func (buffer *LockingRingBuffer) Close() error {
	if buffer.closed.Swap(true) {
		return nil
	}

	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	dropped := buffer.ring.Len()
	buffer.ring = nil

	buffer.logger.Debug("closed", zap.Int("dropped", dropped))

	return nil
}

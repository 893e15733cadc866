package byte_fifo_go

import (
	"errors"
	"io"
)

// Buffer defines the public API shared by RingBuffer and LockingRingBuffer.
//
// Bytes are buffered in FIFO order inside a fixed capacity. Notes on
// semantics:
//   - Write accepts only as many leading bytes of p as fit into Free() and
//     reports that count. It never evicts unread data.
//   - Read(n) removes and returns up to n of the oldest bytes. A negative n
//     means "everything buffered" and n == 0 returns an empty slice without
//     consuming anything. The returned slice never aliases internal storage.
//   - ReadInto is the allocation free variant of Read, filling p.
//   - Resize replaces the storage with one of the requested capacity, keeping
//     the buffered bytes in order. It fails with ErrInvalidArgument, leaving
//     the buffer untouched, when the capacity is below 1 or below Len().
//   - HasData is true whenever the buffer holds at least one unread byte.
//   - IsFull equals Len() == Cap(). A closed LockingRingBuffer has Len and
//     Cap of 0, so it is both empty and full.
//
// No method blocks.
type Buffer interface {
	Write(p []byte) int
	Read(n int) []byte
	ReadAll() []byte
	ReadInto(p []byte) int
	Resize(capacity int) error
	Len() int
	Cap() int
	Free() int
	IsEmpty() bool
	IsFull() bool
	HasData() bool
}

var _ Buffer = &RingBuffer{}
var _ Buffer = &LockingRingBuffer{}
var _ io.Closer = &LockingRingBuffer{}
var _ io.ReadWriter = &Stream{}
var _ io.ByteReader = &Stream{}
var _ io.ByteWriter = &Stream{}

// ErrInvalidArgument indicates a capacity that is below 1 or too small to
// hold the bytes currently buffered.
var ErrInvalidArgument = errors.New("ringbuffer: invalid argument")

// ErrClosed is returned by LockingRingBuffer.Resize after Close.
var ErrClosed = errors.New("ringbuffer: buffer is closed")

// ErrFull is returned by Stream.WriteByte when no space is left.
var ErrFull = errors.New("ringbuffer: buffer is full")

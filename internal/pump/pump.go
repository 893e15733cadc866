// Package pump moves a byte stream from a source to a sink through a
// ring buffer.
package pump

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	fifo "github.com/sushydev/byte_fifo_go"
)

const defaultChunkSize = 4096

type Stats struct {
	BytesIn    int64
	BytesOut   int64
	Resizes    int
	PeakLength int
	// Capacity of the buffer when Run returned.
	Capacity int
}

type Option func(*Pump)

func WithChunkSize(size int) Option {
	return func(p *Pump) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithGrowth lets the pump resize a full buffer up to maxCapacity before it
// falls back to draining.
func WithGrowth(maxCapacity int) Option {
	return func(p *Pump) {
		p.grow = true
		p.maxCapacity = maxCapacity
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Pump) {
		p.logger = logger
	}
}

// Pump reads chunks from a source into the buffer. When a chunk does not fit
// the buffer is grown, if allowed, or drained into the sink. The part of a
// chunk the buffer did not take is held by the pump until it fits, so no
// byte is lost.
type Pump struct {
	buffer fifo.Buffer

	chunkSize   int
	grow        bool
	maxCapacity int

	logger *zap.Logger
}

func New(buffer fifo.Buffer, opts ...Option) *Pump {
	p := &Pump{
		buffer:    buffer,
		chunkSize: defaultChunkSize,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run copies src to dst until src returns io.EOF, then flushes the buffer.
// Cancelling ctx stops the pump; a source read already in progress is
// awaited before Run returns.
func (p *Pump) Run(ctx context.Context, src io.Reader, dst io.Writer) (Stats, error) {
	var stats Stats

	g, ctx := errgroup.WithContext(ctx)
	chunks := make(chan []byte)

	g.Go(func() error {
		defer close(chunks)

		for {
			chunk := make([]byte, p.chunkSize)
			n, err := src.Read(chunk)

			if n > 0 {
				select {
				case chunks <- chunk[:n]:
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			if err == io.EOF {
				return nil
			}

			if err != nil {
				return errors.Wrap(err, "failed to read source")
			}
		}
	})

	g.Go(func() error {
		scratch := make([]byte, p.chunkSize)

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()

			case chunk, ok := <-chunks:
				if !ok {
					_, err := p.drain(dst, scratch, &stats)
					return err
				}

				stats.BytesIn += int64(len(chunk))

				if err := p.push(ctx, chunk, dst, scratch, &stats); err != nil {
					return err
				}
			}
		}
	})

	err := g.Wait()
	stats.Capacity = p.buffer.Cap()

	p.logger.Debug("pump finished",
		zap.Int64("in", stats.BytesIn),
		zap.Int64("out", stats.BytesOut),
		zap.Int("resizes", stats.Resizes),
		zap.Int("peak", stats.PeakLength),
		zap.Int("capacity", stats.Capacity),
		zap.Error(err),
	)

	return stats, err
}

// Holds chunk until the buffer has taken all of it. Every pass must write,
// grow or drain something, otherwise the buffer is unusable (for example a
// closed LockingRingBuffer) and io.ErrNoProgress is returned.
func (p *Pump) push(ctx context.Context, chunk []byte, dst io.Writer, scratch []byte, stats *Stats) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := p.buffer.Write(chunk)
		chunk = chunk[n:]
		stats.PeakLength = max(stats.PeakLength, p.buffer.Len())

		if len(chunk) == 0 {
			return nil
		}

		if p.expand(len(chunk), stats) {
			continue
		}

		drained, err := p.drain(dst, scratch, stats)
		if err != nil {
			return err
		}

		if n == 0 && drained == 0 {
			return errors.Wrapf(io.ErrNoProgress, "buffer took none of %d pending bytes", len(chunk))
		}
	}
}

// Grows the buffer to make room for pending bytes, bounded by maxCapacity.
func (p *Pump) expand(pending int, stats *Stats) bool {
	capacity := p.buffer.Cap()
	if !p.grow || capacity >= p.maxCapacity {
		return false
	}

	target := min(max(2*capacity, p.buffer.Len()+pending), p.maxCapacity)

	if err := p.buffer.Resize(target); err != nil {
		p.logger.Warn("failed to grow buffer", zap.Int("target", target), zap.Error(err))
		return false
	}

	stats.Resizes++
	p.logger.Debug("grew buffer", zap.Int("from", capacity), zap.Int("to", target))

	return true
}

// Moves every buffered byte to dst and returns how many were moved.
func (p *Pump) drain(dst io.Writer, scratch []byte, stats *Stats) (int, error) {
	var total int

	for {
		n := p.buffer.ReadInto(scratch)
		if n == 0 {
			return total, nil
		}

		written, err := dst.Write(scratch[:n])
		stats.BytesOut += int64(written)
		total += written

		if err != nil {
			return total, errors.Wrap(err, "failed to write sink")
		}

		if written < n {
			return total, errors.Wrap(io.ErrShortWrite, "failed to write sink")
		}
	}
}

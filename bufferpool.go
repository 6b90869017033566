package jsonquery

import (
	"bytes"
	"context"

	"github.com/jackc/puddle/v2"
)

// maxRetainedBuffer is the largest response buffer kept for reuse. Larger
// buffers are dropped after use so one huge response does not pin memory.
const maxRetainedBuffer = 1 << 20

// bufferPool hands out response buffers. Its size bounds the number of
// requests a [Client] has on the wire at once.
type bufferPool struct {
	pool *puddle.Pool[*bytes.Buffer] // Underlying pool from github.com/jackc/puddle/v2
}

func newBufferPool(maxSize int32) (*bufferPool, error) {
	pool, err := puddle.NewPool[*bytes.Buffer](&puddle.Config[*bytes.Buffer]{
		Constructor: func(context.Context) (*bytes.Buffer, error) {
			return new(bytes.Buffer), nil
		},
		Destructor: func(*bytes.Buffer) {},
		MaxSize:    maxSize,
	})

	if err != nil {
		return nil, err
	}

	return &bufferPool{pool: pool}, nil
}

// acquire blocks until a buffer is free or ctx is done.
func (bp *bufferPool) acquire(ctx context.Context) (*puddle.Resource[*bytes.Buffer], error) {
	return bp.pool.Acquire(ctx)
}

// releaseBuffer returns res to the pool, or destroys it if its buffer grew too large.
func releaseBuffer(res *puddle.Resource[*bytes.Buffer]) {
	if res.Value().Cap() > maxRetainedBuffer {
		res.Destroy()
		return
	}

	res.Value().Reset()
	res.Release()
}

// inUse returns the number of buffers currently acquired.
func (bp *bufferPool) inUse() int32 {
	return bp.pool.Stat().AcquiredResources()
}

// close waits for acquired buffers to be released and rejects further acquires.
func (bp *bufferPool) close() {
	bp.pool.Close()
}

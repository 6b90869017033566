package jsonquery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall_CompletesOnce(t *testing.T) {
	t.Parallel()

	var duplicates []Result

	callbacks := &Callbacks{
		OnDuplicateCompletion: func(_ *Call, r Result) { duplicates = append(duplicates, r) },
	}

	call := newCall("GET", "http://example.com", callbacks)

	pending, ok := call.Result()
	assert.False(t, ok)
	assert.Equal(t, StatusPending, pending.Status)
	assert.False(t, pending.Success)

	assert.True(t, call.succeed(New().SetInt("n", 1), 200))
	assert.False(t, call.fail(StatusTransportFailed, 0, ErrTransportFailed))

	r, ok := call.Result()
	require.True(t, ok)
	assert.True(t, r.Success)
	assert.Equal(t, StatusSuccess, r.Status)
	assert.Equal(t, 200, r.StatusCode)
	require.NoError(t, r.Err)
	assert.Same(t, call.Document(), r.Document)

	n, ok := call.Document().GetInt("n")
	assert.True(t, ok)
	assert.Equal(t, int64(1), n)

	require.Len(t, duplicates, 1)
	assert.Equal(t, StatusTransportFailed, duplicates[0].Status)
}

func TestCall_ConcurrentCompletion(t *testing.T) {
	t.Parallel()

	call := newCall("POST", "http://example.com", nil)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if call.succeed(New().SetInt("winner", int64(i)), 200) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, call.Document().Len())
}

func TestCall_OnComplete(t *testing.T) {
	t.Parallel()

	call := newCall("GET", "http://example.com", nil)

	var order []string

	call.OnComplete(func(r Result) {
		order = append(order, "before:"+r.Status.String())
	})

	call.fail(StatusParsingFailed, 502, ErrParsingFailed)

	call.OnComplete(func(r Result) {
		order = append(order, "after:"+r.Status.String())
	})

	assert.Equal(t, []string{"before:parsing failed", "after:parsing failed"}, order)

	r, _ := call.Result()
	assert.False(t, r.Success)
	assert.Equal(t, 502, r.StatusCode)
	require.ErrorIs(t, r.Err, ErrParsingFailed)
	require.NotNil(t, r.Document)
	assert.Equal(t, 0, r.Document.Len())
}

func TestCall_CallbackPanicIsRecovered(t *testing.T) {
	t.Parallel()

	var recovered []any

	callbacks := &Callbacks{
		OnCallbackPanic: func(_ *Call, rec any) { recovered = append(recovered, rec) },
	}

	call := newCall("GET", "http://example.com", callbacks)

	ran := false

	call.OnComplete(func(Result) { panic("boom") })
	call.OnComplete(func(Result) { ran = true })

	require.NotPanics(t, func() { call.succeed(New(), 200) })
	assert.True(t, ran, "a panicking handler must not stop the others")
	assert.Equal(t, []any{"boom"}, recovered)
}

func TestCall_Wait(t *testing.T) {
	t.Parallel()

	call := newCall("GET", "http://example.com", nil)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	timedOut, err := call.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StatusPending, timedOut.Status)

	go call.fail(StatusTransportFailed, 0, errors.Join(ErrTransportFailed, errors.New("refused")))

	r, err := call.Wait(t.Context())
	require.NoError(t, err)
	assert.Equal(t, StatusTransportFailed, r.Status)
	require.ErrorIs(t, r.Err, ErrTransportFailed)

	select {
	case <-call.Done():
	default:
		t.Fatal("Done must be closed after completion")
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	require.NoError(t, StatusSuccess.Err())
	require.NoError(t, StatusPending.Err())
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, StatusPending, Result{}.Status)
	require.ErrorIs(t, StatusTransportFailed.Err(), ErrTransportFailed)
	require.ErrorIs(t, StatusParsingFailed.Err(), ErrParsingFailed)

	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "transport failed", StatusTransportFailed.String())
	assert.Equal(t, "unknown", Status(9).String())
}

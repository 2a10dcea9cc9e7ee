package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeExpired(context.Context, time.Time) (int64, error) {
	p.calls.Add(1)
	return 3, p.err
}

func TestJanitorSweepsUntilCancelled(t *testing.T) {
	purger := &countingPurger{}
	j := NewJanitor(purger, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return purger.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestJanitorSurvivesPurgeErrors(t *testing.T) {
	purger := &countingPurger{err: errors.New("database is locked")}
	j := NewJanitor(purger, time.Hour, zap.NewNop())

	j.sweep(context.Background())
	j.sweep(context.Background())
	assert.Equal(t, int32(2), purger.calls.Load())
}

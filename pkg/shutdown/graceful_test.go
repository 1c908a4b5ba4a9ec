package shutdown

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

func TestGracefulStopsTargetsInOrderOnCancel(t *testing.T) {
	var order []string
	first := Func(func(context.Context) error {
		order = append(order, "server")
		return errors.New("listener already closed")
	})
	second := Func(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		order = append(order, "scheduler")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Graceful(ctx, []os.Signal{syscall.SIGUSR2}, time.Second, logging.NewNop(), first, second)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Graceful did not return")
	}
	assert.Equal(t, []string{"server", "scheduler"}, order)
}

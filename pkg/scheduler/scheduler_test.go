package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := New(time.Second)
	err := s.Register("cleanup", "not a cron", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestRunPassesDeadline(t *testing.T) {
	s := New(time.Minute)

	var hadDeadline bool
	s.run("cleanup", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	})
	assert.True(t, hadDeadline)

	// 失败只记录日志
	s.run("cleanup", func(context.Context) error { return errors.New("boom") })
}

func TestStartStop(t *testing.T) {
	s := New(time.Second)
	require.NoError(t, s.Register("noop", "@every 1h", func(context.Context) error { return nil }))
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

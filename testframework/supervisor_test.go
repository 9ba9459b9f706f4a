package testframework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/elementsproject/lnregtest/failure"
	"github.com/elementsproject/lnregtest/poll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sleepDaemon is a Daemon backed by a sleep process.
type sleepDaemon struct {
	*RuntimeNode
	ready     func(ctx context.Context) (bool, error)
	launchErr error
	shutdowns int
}

func newSleepDaemon(t *testing.T, name string) *sleepDaemon {
	sleep := requireBinary(t, "sleep")
	return &sleepDaemon{
		RuntimeNode: NewRuntimeNode(name, t.TempDir(), NewDaemonProcess([]string{sleep, "30"}, name)),
		ready: func(context.Context) (bool, error) {
			return true, nil
		},
	}
}

func (d *sleepDaemon) Runtime() *RuntimeNode { return d.RuntimeNode }

func (d *sleepDaemon) Launch() error {
	if d.launchErr != nil {
		return d.launchErr
	}
	return d.Process.Run()
}

func (d *sleepDaemon) Ready(ctx context.Context) (bool, error) { return d.ready(ctx) }

func (d *sleepDaemon) Shutdown() error {
	d.shutdowns++
	return nil
}

func testProber(timeout time.Duration) *poll.Prober {
	return poll.NewProber(poll.Policy{
		Interval:    10 * time.Millisecond,
		Multiplier:  1.5,
		MaxInterval: 50 * time.Millisecond,
		Timeout:     timeout,
	})
}

func TestSupervisorStartAndStopAll(t *testing.T) {
	s := NewSupervisor(testProber(time.Second), 0, time.Second)
	a := newSleepDaemon(t, "A")
	b := newSleepDaemon(t, "B")

	ctx := context.Background()
	require.NoError(t, s.Start(ctx, a))
	require.NoError(t, s.Start(ctx, b))
	assert.Equal(t, Ready, a.State())
	assert.True(t, s.IsAlive("A"))
	assert.True(t, s.IsAlive("B"))
	assert.False(t, s.IsAlive("Z"))
	assert.Len(t, s.Daemons(), 2)

	stopped, err := s.StopAll()
	require.NoError(t, err)
	assert.Equal(t, 2, stopped)
	assert.False(t, s.IsAlive("A"))
	assert.Equal(t, Stopped, a.State())

	stopped, err = s.StopAll()
	require.NoError(t, err)
	assert.Zero(t, stopped)
}

func TestSupervisorStopAllBeforeStart(t *testing.T) {
	s := NewSupervisor(testProber(time.Second), 0, time.Second)

	stopped, err := s.StopAll()
	require.NoError(t, err)
	assert.Zero(t, stopped)

	d := newSleepDaemon(t, "A")
	s.Track(d)
	s.Track(d)
	assert.Len(t, s.Daemons(), 1)

	stopped, err = s.StopAll()
	require.NoError(t, err)
	assert.Zero(t, stopped)
	assert.Equal(t, Stopped, d.State())
}

func TestSupervisorFailedProbe(t *testing.T) {
	s := NewSupervisor(testProber(200*time.Millisecond), 0, time.Second)
	d := newSleepDaemon(t, "A")
	d.ready = func(context.Context) (bool, error) {
		return false, errors.New("connection refused")
	}
	t.Cleanup(func() { s.StopAll() })

	err := s.Start(context.Background(), d)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrReadiness)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, Failed, d.State())
	assert.True(t, s.IsAlive("A"))
}

func TestSupervisorLaunchFailure(t *testing.T) {
	s := NewSupervisor(testProber(time.Second), 0, time.Second)
	d := newSleepDaemon(t, "A")
	d.launchErr = errors.New("exec: not found")

	err := s.Start(context.Background(), d)
	assert.ErrorIs(t, err, failure.ErrProcessStart)
	assert.Equal(t, Failed, d.State())

	stopped, err := s.StopAll()
	require.NoError(t, err)
	assert.Zero(t, stopped)
}

func TestSupervisorStaggerHonoursContext(t *testing.T) {
	s := NewSupervisor(testProber(time.Second), time.Hour, time.Second)
	t.Cleanup(func() { s.StopAll() })

	require.NoError(t, s.Launch(context.Background(), newSleepDaemon(t, "A")))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	second := newSleepDaemon(t, "B")
	err := s.Launch(ctx, second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, NotStarted, second.State())
}

func TestSupervisorWaitAllReady(t *testing.T) {
	s := NewSupervisor(testProber(200*time.Millisecond), 0, time.Second)
	t.Cleanup(func() { s.StopAll() })

	good := newSleepDaemon(t, "A")
	bad := newSleepDaemon(t, "B")
	bad.ready = func(context.Context) (bool, error) { return false, nil }

	ctx := context.Background()
	require.NoError(t, s.Launch(ctx, good))
	require.NoError(t, s.Launch(ctx, bad))

	err := s.WaitAllReady(ctx, good, bad)
	require.Error(t, err)
	assert.Equal(t, Ready, good.State())
	assert.Equal(t, Failed, bad.State())
	assert.Equal(t, "B", failureNode(err))
}

func failureNode(err error) string {
	var ferr *failure.Error
	if errors.As(err, &ferr) {
		return ferr.Node
	}
	return ""
}

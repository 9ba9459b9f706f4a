package testframework

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/elementsproject/lnregtest/failure"
	"github.com/elementsproject/lnregtest/log"
	"github.com/elementsproject/lnregtest/poll"
)

// Supervisor launches daemons in order, gates them on readiness and tears
// them down again.
type Supervisor struct {
	prober     *poll.Prober
	startDelay time.Duration
	stopGrace  time.Duration

	mu       sync.Mutex
	daemons  []Daemon
	launched int
}

// NewSupervisor waits startDelay between consecutive launches.
func NewSupervisor(prober *poll.Prober, startDelay, stopGrace time.Duration) *Supervisor {
	if stopGrace <= 0 {
		stopGrace = DefaultStopGrace
	}
	return &Supervisor{
		prober:     prober,
		startDelay: startDelay,
		stopGrace:  stopGrace,
	}
}

// Track adds d to the daemons StopAll tears down. Tracking twice is a
// no-op.
func (s *Supervisor) Track(d Daemon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tracked := range s.daemons {
		if tracked.Runtime() == d.Runtime() {
			return
		}
	}
	s.daemons = append(s.daemons, d)
}

// Start launches d and blocks until it is ready.
func (s *Supervisor) Start(ctx context.Context, d Daemon) error {
	if err := s.Launch(ctx, d); err != nil {
		return err
	}
	return s.WaitReady(ctx, d)
}

// Launch spawns d without waiting for it to become ready. Every launch but
// the first waits the start delay.
func (s *Supervisor) Launch(ctx context.Context, d Daemon) error {
	s.Track(d)
	node := d.Runtime()

	s.mu.Lock()
	delay := s.launched > 0 && s.startDelay > 0
	s.launched++
	s.mu.Unlock()

	if delay {
		timer := time.NewTimer(s.startDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return failure.NewProcessStart(node.Name(), ctx.Err())
		case <-timer.C:
		}
	}

	if err := node.Transition(Starting); err != nil {
		return failure.NewProcessStart(node.Name(), err)
	}
	log.Infof("[%s] starting %s", node.Name(), node.Process.CmdLine[0])
	if err := d.Launch(); err != nil {
		err = failure.NewProcessStart(node.Name(), err)
		if serr := node.MarkFailed(err); serr != nil {
			log.Warnf("[%s] %v", node.Name(), serr)
		}
		return err
	}
	return nil
}

// WaitReady probes a launched daemon until it is ready.
func (s *Supervisor) WaitReady(ctx context.Context, d Daemon) error {
	return s.prober.WaitReady(ctx, d.Runtime(), d.Ready)
}

// WaitAllReady probes the daemons concurrently.
func (s *Supervisor) WaitAllReady(ctx context.Context, daemons ...Daemon) error {
	probes := make([]poll.Probe, 0, len(daemons))
	for _, d := range daemons {
		probes = append(probes, poll.Probe{Target: d.Runtime(), Cond: d.Ready})
	}
	return s.prober.WaitAll(ctx, 0, probes...)
}

// Stop terminates d and reports whether a running process was stopped.
func (s *Supervisor) Stop(d Daemon) (bool, error) {
	node := d.Runtime()
	running := node.IsAlive()

	var errs []error
	if err := d.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if running {
		log.Infof("[%s] stopping", node.Name())
		if err := node.Process.Stop(s.stopGrace); err != nil {
			errs = append(errs, err)
		}
	}
	if err := node.Transition(Stopped); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return running, failure.NewTeardown(node.Name(), err)
	}
	return running, nil
}

// StopAll stops every tracked daemon in reverse start order. It returns how
// many running processes it stopped and all teardown failures joined.
func (s *Supervisor) StopAll() (int, error) {
	s.mu.Lock()
	daemons := make([]Daemon, len(s.daemons))
	copy(daemons, s.daemons)
	s.mu.Unlock()

	var (
		stopped int
		errs    []error
	)
	for i := len(daemons) - 1; i >= 0; i-- {
		ok, err := s.Stop(daemons[i])
		if ok {
			stopped++
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return stopped, errors.Join(errs...)
}

// IsAlive reports whether the named daemon's process is running.
func (s *Supervisor) IsAlive(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.daemons {
		if d.Runtime().Name() == name {
			return d.Runtime().IsAlive()
		}
	}
	return false
}

// Daemons returns the tracked daemons in start order.
func (s *Supervisor) Daemons() []Daemon {
	s.mu.Lock()
	defer s.mu.Unlock()
	daemons := make([]Daemon, len(s.daemons))
	copy(daemons, s.daemons)
	return daemons
}

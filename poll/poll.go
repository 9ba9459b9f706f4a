// Package poll waits for daemons to reach a state.
//
// Every wait in a regtest network goes through a Prober: node liveness,
// wallet balances after funding and channel activation after mining. A probe
// re-evaluates its Condition with exponential backoff (no jitter) until the
// condition holds, the policy timeout elapses or the context is cancelled.
package poll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elementsproject/lnregtest/failure"
	"github.com/elementsproject/lnregtest/log"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout is the longest a single probe waits. Slow CI machines set
// SLOW_MACHINE=1.
func DefaultTimeout() time.Duration {
	if os.Getenv("SLOW_MACHINE") == "1" {
		return 420 * time.Second
	}
	return 150 * time.Second
}

type Policy struct {
	// Interval is the wait after the first failed attempt.
	Interval   time.Duration
	Multiplier float64
	// MaxInterval caps the wait between attempts.
	MaxInterval time.Duration
	// Timeout bounds the whole probe.
	Timeout time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Interval:    100 * time.Millisecond,
		Multiplier:  1.5,
		MaxInterval: 2 * time.Second,
		Timeout:     DefaultTimeout(),
	}
}

// WithDefaults fills every zero field from DefaultPolicy.
func (p Policy) WithDefaults() Policy {
	def := DefaultPolicy()
	if p.Interval <= 0 {
		p.Interval = def.Interval
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = def.MaxInterval
	}
	if p.MaxInterval < p.Interval {
		p.MaxInterval = p.Interval
	}
	if p.Timeout <= 0 {
		p.Timeout = def.Timeout
	}
	return p
}

func (p Policy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Interval
	b.RandomizationFactor = 0
	b.Multiplier = p.Multiplier
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = p.Timeout
	b.Reset()
	return b
}

// Condition reports whether the awaited state is reached. An error counts as
// "not yet" and is kept as the last observed failure. Wrap it with Permanent
// to stop probing right away.
type Condition func(ctx context.Context) (bool, error)

func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Target is a node whose lifecycle is decided by a readiness probe.
type Target interface {
	Name() string
	MarkReady() error
	MarkFailed(err error) error
}

var errNotMet = errors.New("condition not met")

type Prober struct {
	policy Policy
}

func NewProber(policy Policy) *Prober {
	return &Prober{policy: policy.WithDefaults()}
}

func (p *Prober) Policy() Policy {
	return p.policy
}

// Until blocks until cond holds for the named node. what describes the
// awaited state and ends up in the error. On timeout a Readiness error
// carrying the last underlying error is returned.
func (p *Prober) Until(ctx context.Context, node, what string, cond Condition) error {
	ctx, cancel := context.WithTimeout(ctx, p.policy.Timeout)
	defer cancel()

	var (
		lastErr  error
		attempts int
	)
	op := func() error {
		attempts++
		ok, err := cond(ctx)
		if err != nil {
			var permanent *backoff.PermanentError
			if !errors.As(err, &permanent) {
				lastErr = err
			}
			return err
		}
		if !ok {
			return errNotMet
		}
		return nil
	}
	notify := func(err error, next time.Duration) {
		log.Debugf("[%s] waiting for %s (attempt %d, next in %s): %v", node, what, attempts, next, err)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(p.policy.backOff(), ctx), notify)
	if err == nil {
		return nil
	}

	cause := err
	if lastErr != nil && !errors.Is(err, lastErr) {
		// Timeout, cancellation or a permanent error. Keep the last
		// transient failure next to it.
		cause = fmt.Errorf("%w, last error: %w", err, lastErr)
	}
	return failure.NewReadiness(node, what, fmt.Errorf("gave up after %d attempts: %w", attempts, cause))
}

// WaitReady probes target until cond holds and records the outcome in the
// target's lifecycle.
func (p *Prober) WaitReady(ctx context.Context, target Target, cond Condition) error {
	err := p.Until(ctx, target.Name(), "ready", cond)
	if err != nil {
		if serr := target.MarkFailed(err); serr != nil {
			log.Warnf("[%s] %v", target.Name(), serr)
		}
		return err
	}
	return target.MarkReady()
}

type Probe struct {
	Target Target
	Cond   Condition
}

// WaitAll runs WaitReady for every probe concurrently and returns all
// failures joined. A limit of zero or less runs every probe at once.
func (p *Prober) WaitAll(ctx context.Context, limit int, probes ...Probe) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, probe := range probes {
		probe := probe
		g.Go(func() error {
			if err := p.WaitReady(ctx, probe.Target, probe.Cond); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

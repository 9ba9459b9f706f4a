package testframework

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"
)

// DefaultStopGrace is how long a daemon may take to exit after SIGTERM
// before it is killed.
const DefaultStopGrace = 15 * time.Second

type DaemonProcess struct {
	CmdLine []string
	Cmd     *exec.Cmd
	StdOut  *lockedWriter
	StdErr  *lockedWriter

	prefix string

	mu      sync.Mutex
	exited  chan struct{}
	exitErr error
}

func NewDaemonProcess(cmdline []string, prefix string) *DaemonProcess {
	return &DaemonProcess{
		CmdLine: cmdline,
		StdOut:  &lockedWriter{prefix: []byte(fmt.Sprintf("%s: ", prefix))},
		StdErr:  &lockedWriter{prefix: []byte(fmt.Sprintf("%s: ", prefix))},
		prefix:  prefix,
	}
}

// Run spawns the process in its own process group. It does not wait for the
// process to exit.
func (d *DaemonProcess) Run() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running() {
		return fmt.Errorf("%s is already running", d.prefix)
	}
	if len(d.CmdLine) == 0 {
		return errors.New("empty command line")
	}

	cmd := exec.Command(d.CmdLine[0], d.CmdLine[1:]...)
	cmd.Stdout = d.StdOut
	cmd.Stderr = d.StdErr
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		fmt.Fprintln(d.StdErr, "error starting cmd", err)
		return fmt.Errorf("Start(%s) %w", d.CmdLine[0], err)
	}

	exited := make(chan struct{})
	d.Cmd = cmd
	d.exited = exited
	d.exitErr = nil
	go func() {
		err := cmd.Wait()
		d.mu.Lock()
		d.exitErr = err
		d.mu.Unlock()
		close(exited)
	}()
	return nil
}

func (d *DaemonProcess) running() bool {
	if d.exited == nil {
		return false
	}
	select {
	case <-d.exited:
		return false
	default:
		return true
	}
}

func (d *DaemonProcess) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running()
}

// ExitErr returns the error the process exited with, if it exited.
func (d *DaemonProcess) ExitErr() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exitErr
}

// Stop sends SIGTERM to the process group and kills it if it is still
// running after grace. Stopping a process that is not running is a no-op.
func (d *DaemonProcess) Stop(grace time.Duration) error {
	d.mu.Lock()
	if !d.running() {
		d.mu.Unlock()
		return nil
	}
	cmd, exited := d.Cmd, d.exited
	d.mu.Unlock()

	if err := terminate(cmd); err != nil {
		return fmt.Errorf("terminate %s: %w", d.prefix, err)
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-exited:
		return nil
	case <-timer.C:
	}

	if err := kill(cmd); err != nil {
		return fmt.Errorf("kill %s: %w", d.prefix, err)
	}
	<-exited
	return nil
}

// Kill kills the process group without a grace period.
func (d *DaemonProcess) Kill() {
	d.mu.Lock()
	if !d.running() {
		d.mu.Unlock()
		return
	}
	cmd, exited := d.Cmd, d.exited
	d.mu.Unlock()

	kill(cmd)
	<-exited
}

func (d *DaemonProcess) HasLog(regex string) (bool, error) {
	rx, err := regexp.Compile(regex)
	if err != nil {
		return false, fmt.Errorf("Compile(regex) %w", err)
	}

	scanner := bufio.NewScanner(strings.NewReader(d.StdOut.String()))
	for scanner.Scan() {
		if rx.MatchString(scanner.Text()) {
			return true, nil
		}
	}
	return false, nil
}

func (d *DaemonProcess) WaitForLog(ctx context.Context, regex string) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		ok, err := d.HasLog(regex)
		if err != nil {
			return fmt.Errorf("HasLog() %w", err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for `%s` in logs: %w", regex, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (d *DaemonProcess) Prefix() string {
	return d.prefix
}

// lockedWriter keeps everything a daemon writes, each line prefixed with the
// daemon's name.
type lockedWriter struct {
	sync.RWMutex

	prefix  []byte
	buf     []byte
	midLine bool
}

func (w *lockedWriter) Write(b []byte) (n int, err error) {
	w.Lock()
	defer w.Unlock()

	for _, line := range bytes.SplitAfter(b, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if !w.midLine {
			w.buf = append(w.buf, w.prefix...)
		}
		w.buf = append(w.buf, line...)
		w.midLine = line[len(line)-1] != '\n'
	}
	return len(b), nil
}

func (w *lockedWriter) String() string {
	w.RLock()
	defer w.RUnlock()

	return string(w.buf)
}

func (w *lockedWriter) Filter(regex string) []byte {
	w.RLock()
	defer w.RUnlock()

	rx, err := regexp.Compile(regex)
	if err != nil {
		return nil
	}

	var buf []byte
	scanner := bufio.NewScanner(bytes.NewReader(w.buf))
	for scanner.Scan() {
		if rx.Match(scanner.Bytes()) {
			buf = append(buf, scanner.Bytes()...)
			buf = append(buf, '\n')
		}
	}
	return buf
}

// Tail returns the last n lines matching regex. n < 1 returns all of them.
func (w *lockedWriter) Tail(n int, regex string) string {
	w.RLock()
	defer w.RUnlock()

	rx, err := regexp.Compile(regex)
	if err != nil {
		return ""
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(w.buf))
	for scanner.Scan() {
		if rx.Match(scanner.Bytes()) {
			lines = append(lines, scanner.Text())
		}
	}

	if n < 1 || n > len(lines) {
		n = len(lines)
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

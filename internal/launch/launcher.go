package launch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/navigation"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/endpoint"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/logging"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/monitoring"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/shared/id"
)

const maxOutputLines = 1000

// Opener opens a URL in the browser tool window
type Opener interface {
	Open(ctx context.Context, rawURL string) (navigation.Result, error)
}

// Launcher starts profiles
type Launcher struct {
	ports   endpoint.PortSource
	opener  Opener
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewLauncher creates a launcher publishing the endpoint of ports
func NewLauncher(ports endpoint.PortSource, opener Opener, logger *logging.Logger) *Launcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Launcher{
		ports:  ports,
		opener: opener,
		logger: logger.Named("launch"),
	}
}

// WithMetrics adds launch metrics
func (l *Launcher) WithMetrics(metrics *monitoring.Metrics) *Launcher {
	l.metrics = metrics
	return l
}

// Process is a running or finished child
type Process struct {
	ID        id.LaunchID
	Profile   Profile
	StartedAt time.Time

	cmd  *exec.Cmd
	done chan struct{}
	err  error // set before done is closed

	mu     sync.Mutex
	output []string // Protected by mu, last maxOutputLines lines
}

// PID returns the operating system process id
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Wait blocks until the child has exited and its output is drained
func (p *Process) Wait() error {
	<-p.done
	return p.err
}

// Done is closed when the child has exited
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Output returns the captured output lines
func (p *Process) Output() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.output))
	copy(out, p.output)
	return out
}

// Stop asks the child to terminate
func (p *Process) Stop() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	return p.cmd.Process.Signal(syscall.SIGTERM)
}

func (p *Process) appendLine(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.output) == maxOutputLines {
		p.output = p.output[1:]
	}
	p.output = append(p.output, line)
}

// Start runs the before-run browser step and starts the profile's command.
// The child is killed when ctx is cancelled.
func (l *Launcher) Start(ctx context.Context, profile Profile) (*Process, error) {
	runID := id.NewLaunchID()
	log := l.logger.With(
		zap.String("launch_id", runID.String()),
		zap.String("profile", profile.Name),
	)

	if profile.URL != "" && l.opener != nil {
		if _, err := l.opener.Open(ctx, profile.URL); err != nil {
			log.Warn("Before-run browser step failed", zap.String("url", profile.URL), zap.Error(err))
		}
	}

	cmd := exec.CommandContext(ctx, profile.Command, profile.Args...)
	cmd.Dir = profile.Dir
	cmd.Env = l.environ(profile, log)

	proc := &Process{
		ID:      runID,
		Profile: profile,
		cmd:     cmd,
		done:    make(chan struct{}),
	}

	var (
		output  io.ReadCloser
		release func()
	)
	if profile.TTY {
		ptmx, err := pty.Start(cmd)
		if err != nil {
			l.record("failed")
			return nil, fmt.Errorf("failed to start %s on pty: %w", profile.Command, err)
		}
		output = ptmx
		release = func() {}
	} else {
		pr, pw := io.Pipe()
		cmd.Stdout = pw
		cmd.Stderr = pw
		if err := cmd.Start(); err != nil {
			pw.Close()
			l.record("failed")
			return nil, fmt.Errorf("failed to start %s: %w", profile.Command, err)
		}
		output = pr
		release = func() { pw.Close() }
	}

	proc.StartedAt = time.Now()
	l.record("started")
	log.Info("Process started",
		zap.String("command", profile.Command),
		zap.Strings("args", profile.Args),
		zap.Int("pid", cmd.Process.Pid),
		zap.Bool("tty", profile.TTY),
	)

	streamed := make(chan struct{})
	go func() {
		defer close(streamed)
		stream(output, log, proc.appendLine)
	}()

	go func() {
		err := cmd.Wait()
		release()
		<-streamed
		output.Close()

		proc.err = err
		close(proc.done)

		if err != nil {
			l.record("exit_error")
			log.Warn("Process exited with error", zap.Duration("uptime", time.Since(proc.StartedAt)), zap.Error(err))
			return
		}
		l.record("exited")
		log.Info("Process exited", zap.Duration("uptime", time.Since(proc.StartedAt)))
	}()

	return proc, nil
}

// environ builds the child environment. Profile variables override inherited
// ones; the endpoint variable is always computed fresh or left out.
func (l *Launcher) environ(profile Profile, log *logging.Logger) []string {
	env := os.Environ()

	keys := make([]string, 0, len(profile.Env))
	for k := range profile.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = setEnv(env, k, profile.Env[k])
	}

	injected, err := endpoint.Environ(env, l.ports)
	if err != nil {
		log.Warn("Failed to publish browser endpoint to process", zap.Error(err))
		return unsetEnv(env, endpoint.EnvVar)
	}
	return injected
}

func setEnv(env []string, key, value string) []string {
	return append(unsetEnv(env, key), key+"="+value)
}

func unsetEnv(env []string, key string) []string {
	out := env[:0:0]
	for _, kv := range env {
		if !strings.HasPrefix(kv, key+"=") {
			out = append(out, kv)
		}
	}
	return out
}

// stream logs r line by line until EOF. A pty reports EIO once the child
// side is closed, which ends the stream like EOF.
func stream(r io.Reader, log *logging.Logger, sink func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		sink(line)
		log.Info("Process output", zap.String("line", line))
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, syscall.EIO) && !errors.Is(err, os.ErrClosed) {
		log.Debug("Process output ended", zap.Error(err))
	}
}

func (l *Launcher) record(status string) {
	if l.metrics != nil {
		l.metrics.RecordLaunch(status)
	}
}

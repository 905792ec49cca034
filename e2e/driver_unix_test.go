//go:build e2e && unix

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

var binPath = "combosearch_e2e" // set to an absolute path by TestMain

// Terminal input for the keys the search box understands
const (
	KeyEnter = "\r"
	KeyCtrlC = "\x03"
	KeyTab   = "\t"
	KeyEsc   = "\x1b"
	KeyDown  = "\x1b[B"
	KeyUp    = "\x1b[A"
	KeyQuit  = "q"
	KeyHelp  = "\x1bOP" // F1
	KeyInfo  = "\x0f"   // ctrl+o
)

// ansiRe strips escape sequences and carriage returns so assertions see text
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// scrollback keeps the most recent output of the app, bounded by limit
type scrollback struct {
	mu    sync.Mutex
	data  []byte
	limit int
}

func (b *scrollback) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, p...)
	if over := len(b.data) - b.limit; over > 0 {
		b.data = append(b.data[:0], b.data[over:]...)
	}
	return len(p), nil
}

func (b *scrollback) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}

// Session runs the binary on a pseudo terminal against a fake catalog
type Session struct {
	t         *testing.T
	pty       *os.File
	cmd       *exec.Cmd
	workspace string
	catalog   *FakeCatalog
	out       *scrollback
	copied    chan struct{}
}

// NewSession creates a session; call CreateTestWorkspace before starting
func NewSession(t *testing.T) *Session {
	return &Session{
		t:   t,
		out: &scrollback{limit: 1 << 20},
	}
}

// StartApp launches the binary with args on a 120x40 terminal
func (s *Session) StartApp(args ...string) error {
	s.cmd = exec.Command(binPath, args...)
	s.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+s.workspace,
		"XDG_CONFIG_HOME="+filepath.Join(s.workspace, ".config"),
		"XDG_CACHE_HOME="+filepath.Join(s.workspace, ".cache"),
	)

	f, err := pty.StartWithSize(s.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("failed to start on a pty: %w", err)
	}
	s.pty = f

	s.copied = make(chan struct{})
	go func() {
		defer close(s.copied)
		_, _ = io.Copy(s.out, f)
	}()
	return nil
}

// SendKeys writes raw terminal input
func (s *Session) SendKeys(keys string) error {
	s.t.Helper()
	_, err := s.pty.Write([]byte(keys))
	return err
}

// SendCtrlC interrupts the app
func (s *Session) SendCtrlC() error {
	return s.SendKeys(KeyCtrlC)
}

// Quit sends 'q'; it only quits while the search box is blurred
func (s *Session) Quit() error {
	return s.SendKeys(KeyQuit)
}

// Type sends text to the search box
func (s *Session) Type(text string) error {
	return s.SendKeys(text)
}

// Blur moves focus away from the search box
func (s *Session) Blur() error {
	return s.SendKeys(KeyTab)
}

// OpenHelp shows the shortcuts in the pager
func (s *Session) OpenHelp() error {
	return s.SendKeys(KeyHelp)
}

// Enter selects the highlighted result
func (s *Session) Enter() error {
	return s.SendKeys(KeyEnter)
}

// Down highlights the next result
func (s *Session) Down() error {
	return s.SendKeys(KeyDown)
}

// Up highlights the previous result
func (s *Session) Up() error {
	return s.SendKeys(KeyUp)
}

// Ready waits for the title bar
func (s *Session) Ready() bool {
	s.t.Helper()
	return s.OutputContainsPlain("combosearch", 5*time.Second)
}

// OutputContainsPlain waits until the plain output contains text
func (s *Session) OutputContainsPlain(text string, timeout time.Duration) bool {
	s.t.Helper()
	return s.WaitFor(func(out string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(out, ""), text)
	}, timeout)
}

// WaitFor polls the raw output until pred holds or timeout passes
func (s *Session) WaitFor(pred func(string) bool, timeout time.Duration) bool {
	s.t.Helper()
	return s.WaitForE(pred, timeout, "") == nil
}

// WaitForE is WaitFor with an error carrying the tail of the screen
func (s *Session) WaitForE(pred func(string) bool, timeout time.Duration, failMsg string) error {
	s.t.Helper()
	tick := time.NewTicker(25 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(timeout)
	for {
		if pred(s.Snapshot()) {
			return nil
		}
		select {
		case <-tick.C:
		case <-deadline:
			tail := s.SnapshotPlain()
			if len(tail) > 4096 {
				tail = tail[len(tail)-4096:]
			}
			return fmt.Errorf("%s\n--- screen tail ---\n%s", failMsg, tail)
		}
	}
}

// Snapshot returns the raw output so far
func (s *Session) Snapshot() string {
	return s.out.String()
}

// SnapshotPlain returns the output without escape sequences
func (s *Session) SnapshotPlain() string {
	return ansiRe.ReplaceAllString(s.Snapshot(), "")
}

// Cleanup kills the app, then stops the catalog
func (s *Session) Cleanup() {
	if s.cmd != nil && s.cmd.Process != nil && s.cmd.ProcessState == nil {
		_ = s.cmd.Process.Kill()
	}
	if s.pty != nil {
		_ = s.pty.Close()
		<-s.copied
		s.pty = nil
	}
	if s.catalog != nil {
		s.catalog.Close()
		s.catalog = nil
	}
}

//go:build !windows

package cterm

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

// PTYConfig configures the child process a PTY spawns.
type PTYConfig struct {
	Shell string
	Args  []string
	Env   []string
	Dir   string
}

// PTY owns a pseudo-terminal master file descriptor and the child process
// attached to its slave side. Grounded on the reader-goroutine shape of
// dcosson-h2's virtualterminal.VT, using github.com/creack/pty for the
// actual openpty/fork-exec plumbing.
type PTY struct {
	master *os.File
	cmd    *exec.Cmd
}

// StartPTY spawns cfg.Shell under a new pseudo-terminal sized rows x cols.
func StartPTY(cfg PTYConfig, rows, cols int) (*PTY, error) {
	cmd := exec.Command(cfg.Shell, cfg.Args...)
	if len(cfg.Env) > 0 {
		cmd.Env = cfg.Env
	}
	if cfg.Dir != "" {
		cmd.Dir = cfg.Dir
	}

	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("spawn pty: %w", err)
	}

	return &PTY{master: master, cmd: cmd}, nil
}

// Read reads output from the child process. A read error after the child
// has exited should be treated by the caller as process exit, not failure.
func (p *PTY) Read(buf []byte) (int, error) {
	return p.master.Read(buf)
}

// Write sends input to the child process.
func (p *PTY) Write(buf []byte) (int, error) {
	return p.master.Write(buf)
}

// Resize propagates a new terminal size to the child via TIOCSWINSZ.
func (p *PTY) Resize(rows, cols int) error {
	if err := pty.Setsize(p.master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	return nil
}

// ChildPID returns the child process's PID, or false if it never started.
func (p *PTY) ChildPID() (int, bool) {
	if p.cmd.Process == nil {
		return 0, false
	}
	return p.cmd.Process.Pid, true
}

// DupFD duplicates the master file descriptor for seamless-upgrade
// handoff to another process.
func (p *PTY) DupFD() (uintptr, error) {
	dup, err := syscall.Dup(int(p.master.Fd()))
	if err != nil {
		return 0, fmt.Errorf("dup pty fd: %w", err)
	}
	return uintptr(dup), nil
}

// SendSignal delivers an OS signal to the child's process group.
func (p *PTY) SendSignal(sig syscall.Signal) error {
	if p.cmd.Process == nil {
		return fmt.Errorf("send signal: no child process")
	}
	return syscall.Kill(-p.cmd.Process.Pid, sig)
}

// Wait blocks until the child exits and returns its exit status.
func (p *PTY) Wait() (int, error) {
	err := p.cmd.Wait()
	if p.cmd.ProcessState != nil {
		return p.cmd.ProcessState.ExitCode(), err
	}
	return -1, err
}

// Close releases the master file descriptor. The child receives SIGHUP at
// its next I/O attempt once this closes the slave side.
func (p *PTY) Close() error {
	return p.master.Close()
}

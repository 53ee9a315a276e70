//go:build windows

package cterm

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// PTYConfig configures the child process a PTY spawns.
type PTYConfig struct {
	Shell string
	Args  []string
	Env   []string
	Dir   string
}

// PTY wraps a Windows ConPTY pseudo-console and the pipe pair connected to
// it, presenting the same read/write/resize/child_pid surface as the Unix
// implementation. Built directly against the ConPTY API
// (`CreatePseudoConsole`/`ResizePseudoConsole`/`ClosePseudoConsole`) exposed
// by golang.org/x/sys/windows; see DESIGN.md for the charmbracelet/x/conpty
// reference this follows.
type PTY struct {
	mu        sync.Mutex
	console   windows.Handle
	ptyOut    *os.File // read end the parent reads child output from
	ptyIn     *os.File // write end the parent writes child input to
	childOut  *os.File // write end handed to the child as its stdout/stderr
	childIn   *os.File // read end handed to the child as its stdin
	cmd       *exec.Cmd
	closeOnce sync.Once
}

// StartPTY spawns cfg.Shell attached to a new ConPTY sized rows x cols.
func StartPTY(cfg PTYConfig, rows, cols int) (*PTY, error) {
	inRead, inWrite, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}
	outRead, outWrite, err := os.Pipe()
	if err != nil {
		inRead.Close()
		inWrite.Close()
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}

	var console windows.Handle
	size := windows.Coord{X: int16(cols), Y: int16(rows)}
	if err := windows.CreatePseudoConsole(size, windows.Handle(inRead.Fd()), windows.Handle(outWrite.Fd()), 0, &console); err != nil {
		inRead.Close()
		inWrite.Close()
		outRead.Close()
		outWrite.Close()
		return nil, fmt.Errorf("create pseudo console: %w", err)
	}

	p := &PTY{
		console:  console,
		ptyOut:   outRead,
		ptyIn:    inWrite,
		childOut: outWrite,
		childIn:  inRead,
	}

	if err := p.spawn(cfg); err != nil {
		p.Close()
		return nil, err
	}

	// The parent never writes to the child's stdio handles directly;
	// ConPTY communicates only through the pipe pair given to it above.
	p.childIn.Close()
	p.childOut.Close()

	return p, nil
}

func (p *PTY) spawn(cfg PTYConfig) error {
	attrList, err := newProcThreadAttributeList(1)
	if err != nil {
		return fmt.Errorf("allocate attribute list: %w", err)
	}
	defer attrList.delete()

	if err := attrList.update(windows.PROC_THREAD_ATTRIBUTE_PSEUDOCONSOLE, unsafe.Pointer(p.console), unsafe.Sizeof(p.console)); err != nil {
		return fmt.Errorf("set pseudoconsole attribute: %w", err)
	}

	commandLine := buildCommandLine(cfg.Shell, cfg.Args)
	cmdLinePtr, err := windows.UTF16PtrFromString(commandLine)
	if err != nil {
		return fmt.Errorf("encode command line: %w", err)
	}

	var dirPtr *uint16
	if cfg.Dir != "" {
		dirPtr, err = windows.UTF16PtrFromString(cfg.Dir)
		if err != nil {
			return fmt.Errorf("encode working directory: %w", err)
		}
	}

	var envPtr *uint16
	if len(cfg.Env) > 0 {
		envBlock := strings.Join(cfg.Env, "\x00") + "\x00\x00"
		envPtr, err = windows.UTF16PtrFromString(envBlock)
		if err != nil {
			return fmt.Errorf("encode environment block: %w", err)
		}
	}

	si := windows.StartupInfoEx{
		StartupInfo: windows.StartupInfo{Cb: uint32(unsafe.Sizeof(windows.StartupInfoEx{}))},
	}
	si.ProcThreadAttributeList = attrList.ptr()

	var pi windows.ProcessInformation
	flags := uint32(windows.EXTENDED_STARTUPINFO_PRESENT | windows.CREATE_UNICODE_ENVIRONMENT)

	err = windows.CreateProcess(
		nil,
		cmdLinePtr,
		nil,
		nil,
		false,
		flags,
		envPtr,
		dirPtr,
		&si.StartupInfo,
		&pi,
	)
	if err != nil {
		return fmt.Errorf("create child process: %w", err)
	}
	windows.CloseHandle(pi.Thread)

	p.cmd = &exec.Cmd{Process: nil}
	p.cmd.Process, err = os.FindProcess(int(pi.ProcessId))
	if err != nil {
		windows.CloseHandle(pi.Process)
		return fmt.Errorf("attach to child process: %w", err)
	}
	windows.CloseHandle(pi.Process)

	return nil
}

func buildCommandLine(shell string, args []string) string {
	parts := append([]string{shell}, args...)
	return windows.ComposeCommandLine(parts)
}

// Read reads decoded console output from the ConPTY.
func (p *PTY) Read(buf []byte) (int, error) {
	return p.ptyOut.Read(buf)
}

// Write sends input to the child process through the ConPTY.
func (p *PTY) Write(buf []byte) (int, error) {
	return p.ptyIn.Write(buf)
}

// Resize changes the pseudo-console's dimensions.
func (p *PTY) Resize(rows, cols int) error {
	size := windows.Coord{X: int16(cols), Y: int16(rows)}
	if err := windows.ResizePseudoConsole(p.console, size); err != nil {
		return fmt.Errorf("resize pseudo console: %w", err)
	}
	return nil
}

// ChildPID returns the child process's PID, or false if it never started.
func (p *PTY) ChildPID() (int, bool) {
	if p.cmd == nil || p.cmd.Process == nil {
		return 0, false
	}
	return p.cmd.Process.Pid, true
}

// DupFD has no meaningful equivalent on Windows (handles aren't POSIX fds
// usable the same way); it is a no-op that always errors.
func (p *PTY) DupFD() (uintptr, error) {
	return 0, fmt.Errorf("dup fd: not supported on windows")
}

// SendSignal has no direct Windows analogue for arbitrary POSIX signals;
// termination is approximated by killing the child process.
func (p *PTY) SendSignal(sig syscall.Signal) error {
	if p.cmd == nil || p.cmd.Process == nil {
		return fmt.Errorf("send signal: no child process")
	}
	return p.cmd.Process.Kill()
}

// Wait blocks until the child exits and returns its exit status.
func (p *PTY) Wait() (int, error) {
	state, err := p.cmd.Process.Wait()
	if err != nil {
		return -1, err
	}
	return state.ExitCode(), nil
}

// Close tears down the pseudo-console and its pipe pair.
func (p *PTY) Close() error {
	var err error
	p.closeOnce.Do(func() {
		if p.console != 0 {
			windows.ClosePseudoConsole(p.console)
		}
		p.ptyIn.Close()
		p.ptyOut.Close()
		if p.childIn != nil {
			p.childIn.Close()
		}
		if p.childOut != nil {
			p.childOut.Close()
		}
	})
	return err
}

// procThreadAttributeList wraps the Win32 attribute-list allocation dance
// CreateProcess needs to receive the PROC_THREAD_ATTRIBUTE_PSEUDOCONSOLE
// attribute.
type procThreadAttributeList struct {
	buf []byte
}

func newProcThreadAttributeList(count uint32) (*procThreadAttributeList, error) {
	var size uintptr
	windows.InitializeProcThreadAttributeList(nil, count, 0, &size)
	if size == 0 {
		return nil, fmt.Errorf("determine attribute list size")
	}

	l := &procThreadAttributeList{buf: make([]byte, size)}
	if err := windows.InitializeProcThreadAttributeList(l.ptr(), count, 0, &size); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *procThreadAttributeList) ptr() *windows.ProcThreadAttributeList {
	return (*windows.ProcThreadAttributeList)(unsafe.Pointer(&l.buf[0]))
}

func (l *procThreadAttributeList) update(attribute uintptr, value unsafe.Pointer, size uintptr) error {
	return windows.UpdateProcThreadAttribute(l.ptr(), 0, attribute, value, size, nil, nil)
}

func (l *procThreadAttributeList) delete() {
	windows.DeleteProcThreadAttributeList(l.ptr())
}

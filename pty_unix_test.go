//go:build !windows

package cterm

import (
	"strings"
	"testing"
	"time"
)

func TestStartPTYEcho(t *testing.T) {
	p, err := StartPTY(PTYConfig{Shell: "/bin/sh", Args: []string{"-c", "echo hi"}}, 24, 80)
	if err != nil {
		t.Fatalf("StartPTY: %v", err)
	}
	defer p.Close()

	buf := make([]byte, 256)
	var out strings.Builder
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		n, err := p.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
		}
		if err != nil {
			break
		}
		if strings.Contains(out.String(), "hi") {
			break
		}
	}

	if !strings.Contains(out.String(), "hi") {
		t.Errorf("expected output to contain 'hi', got %q", out.String())
	}
}

func TestStartPTYWrite(t *testing.T) {
	p, err := StartPTY(PTYConfig{Shell: "/bin/cat"}, 24, 80)
	if err != nil {
		t.Fatalf("StartPTY: %v", err)
	}
	defer p.Close()

	if _, err := p.Write([]byte("echo-me\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	buf := make([]byte, 256)
	var out strings.Builder
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		n, err := p.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
		}
		if err != nil {
			break
		}
		if strings.Contains(out.String(), "echo-me") {
			break
		}
	}

	if !strings.Contains(out.String(), "echo-me") {
		t.Errorf("expected cat to echo back written input, got %q", out.String())
	}
}

func TestStartPTYResize(t *testing.T) {
	p, err := StartPTY(PTYConfig{Shell: "/bin/cat"}, 24, 80)
	if err != nil {
		t.Fatalf("StartPTY: %v", err)
	}
	defer p.Close()

	if err := p.Resize(40, 120); err != nil {
		t.Errorf("Resize: %v", err)
	}
}

func TestStartPTYChildPID(t *testing.T) {
	p, err := StartPTY(PTYConfig{Shell: "/bin/cat"}, 24, 80)
	if err != nil {
		t.Fatalf("StartPTY: %v", err)
	}
	defer p.Close()

	pid, ok := p.ChildPID()
	if !ok {
		t.Fatal("expected ChildPID to report a live process")
	}
	if pid <= 0 {
		t.Errorf("expected a positive PID, got %d", pid)
	}
}

func TestStartPTYCloseThenWait(t *testing.T) {
	p, err := StartPTY(PTYConfig{Shell: "/bin/sh", Args: []string{"-c", "exit 3"}}, 24, 80)
	if err != nil {
		t.Fatalf("StartPTY: %v", err)
	}
	defer p.Close()

	buf := make([]byte, 64)
	for {
		_, err := p.Read(buf)
		if err != nil {
			break
		}
	}

	code, _ := p.Wait()
	if code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
}

func TestTerminalWithRealShell(t *testing.T) {
	term, err := NewTerminalWithShell(24, 80, PTYConfig{Shell: "/bin/sh", Args: []string{"-c", "echo ready; sleep 1"}})
	if err != nil {
		t.Fatalf("NewTerminalWithShell: %v", err)
	}
	defer term.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(term.Screen().LineContent(0), "ready") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("expected screen to show shell output, got %q", term.Screen().LineContent(0))
}

// Package platform provides the few host services the object model relies
// on at its edges: running a shell command, reading and writing files, and
// detecting the host's shell and path separator.
package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Shell returns the command interpreter and the flag that makes it run a
// single command string.
func Shell() (string, string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/C"
	}
	if sh := os.Getenv("SHELL"); sh != "" && !strings.HasSuffix(sh, "fish") {
		return sh, "-c"
	}
	return "sh", "-c"
}

// Separator returns the host path separator as a string.
func Separator() string {
	return string(filepath.Separator)
}

// Execute runs command through the host shell and reports whether it
// succeeded along with its exit code. A command that cannot be started
// reports exit code -1.
func Execute(command string) (bool, int) {
	return ExecuteWith(command, nil)
}

// ExecuteWith is Execute with extra KEY=VALUE environment entries.
func ExecuteWith(command string, env []string) (bool, int) {
	shell, flag := Shell()
	cmd := exec.Command(shell, flag, command)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return true, 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, exitErr.ExitCode()
	}
	log.Errorf("starting %q: %s", command, err)
	return false, -1
}

// ReadFile returns the content of path.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteFile replaces the content of path, creating parent directories.
func WriteFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

//go:build unix

package fptaylor

import (
	"os/exec"
	"syscall"
)

// killProcessGroup runs the analyzer in its own process group so a timeout
// also takes down the optimizers it spawned.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}

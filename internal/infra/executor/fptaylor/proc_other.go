//go:build !unix

package fptaylor

import "os/exec"

// killProcessGroup keeps the default Cancel, which kills only the direct child.
func killProcessGroup(cmd *exec.Cmd) {}

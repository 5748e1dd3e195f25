//go:build !windows

package tactile

import (
	"os/exec"
	"syscall"
)

// setupDetached puts the editor in its own process group so terminal signals
// sent to the bot do not reach it.
func setupDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func setupHelperProcess(*exec.Cmd) {}

func killByNameCommand(image string) Command {
	return Command{Binary: "pkill", Arguments: []string{"-KILL", "-x", image}}
}

func killByPIDCommand(pid int) Command {
	return Command{Binary: "kill", Arguments: []string{"-KILL", pidArg(pid)}}
}

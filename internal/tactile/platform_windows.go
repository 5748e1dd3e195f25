//go:build windows

package tactile

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// setupDetached starts the editor in its own process group with no console,
// so Ctrl+C delivered to the bot never reaches it.
func setupDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}
}

// setupHelperProcess keeps taskkill from flashing a console window.
func setupHelperProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}

func killByNameCommand(image string) Command {
	return Command{Binary: "taskkill", Arguments: []string{"/F", "/IM", image}}
}

func killByPIDCommand(pid int) Command {
	return Command{Binary: "taskkill", Arguments: []string{"/F", "/PID", pidArg(pid)}}
}

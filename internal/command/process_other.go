//go:build !unix

package command

import (
	"os"
	"os/exec"
)

func setProcessGroup(*exec.Cmd) {}

func terminate(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

// killedBySignal cannot tell a kill from a failing exit here; any
// unsuccessful exit after a kill counts.
func killedBySignal(state *os.ProcessState) bool {
	return state != nil && !state.Success()
}

package video

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 10 * time.Second

// Status reports whether the external encoder can be used.
type Status struct {
	Name      string
	Command   string
	Available bool
	Version   string
	Detail    string
}

// CheckEncoder runs `<binary> -version` and reports the first line of output.
func CheckEncoder(ctx context.Context, binary string) Status {
	status := Status{Name: "Encoder", Command: strings.TrimSpace(binary)}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Command = path

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		status.Detail = fmt.Sprintf("%s -version failed: %v", path, err)
		return status
	}
	status.Available = true
	sc := bufio.NewScanner(bytes.NewReader(out))
	if sc.Scan() {
		status.Version = strings.TrimSpace(sc.Text())
	}
	return status
}

package extractors

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure ExecRunner implements the interface.
var _ driven.CommandRunner = (*ExecRunner)(nil)

// ExecRunner runs external commands with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a command runner backed by the local PATH.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and returns its standard output. On failure the
// error includes whatever the tool wrote to stderr.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, stderr.String())
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

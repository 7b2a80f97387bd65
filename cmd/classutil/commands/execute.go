package commands

import (
	"context"
	"os"
)

// ExecuteContext runs the command line of the process and returns its exit code.
func ExecuteContext(ctx context.Context) int {
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"taskboard/internal/cli"

	"github.com/google/uuid"
)

// isTaskID reports whether s looks like a task id: a generated UUID or one of the
// numeric ids of the starter board.
func isTaskID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if _, err := uuid.Parse(s); err == nil {
		return true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func rewriteDirectTaskLookupArgs(argv []string) []string {
	// Convenience: `taskboard <task-id>` works like `taskboard notes <task-id>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before
	// parsing. Persistent flags may come first (`taskboard --backend file <id>`).
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--backend":   true,
		"--data-dir":  true,
		"--key":       true,
		"--format":    true,
		"--log-level": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isTaskID(argv[i+1]) {
				return insertArgs(argv, i+1, "notes")
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		// First positional token.
		if isTaskID(a) {
			return insertArgs(argv, i, "notes")
		}
		return argv
	}
	return argv
}

func insertArgs(argv []string, at int, extra ...string) []string {
	out := make([]string, 0, len(argv)+len(extra))
	out = append(out, argv[:at]...)
	out = append(out, extra...)
	return append(out, argv[at:]...)
}

func main() {
	os.Args = rewriteDirectTaskLookupArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

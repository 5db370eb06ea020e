package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/mexl/log"
	"github.com/ardnew/mexl/model"
)

const defaultEditor = "vi"

// editModelCommand implements [tea.ExecCommand] for the full
// edit-load-retry loop. It opens the user's editor on the model file and
// reloads the result. On load error the user is prompted to re-edit;
// declining exits the program.
type editModelCommand struct {
	ctxFunc func() context.Context
	loaded  *model.Model
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	path    string
	fold    bool
}

// SetStdin sets the stdin reader for the command.
func (c *editModelCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editModelCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editModelCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-load-retry loop. It opens the editor on the model
// file, reloads it, and prompts on error. If the user declines to re-edit,
// it returns [ErrEditDeclined].
func (c *editModelCommand) Run() error {
	ctx := c.ctxFunc()

	session := model.NewSession(
		model.WithCaseFold(c.fold),
		model.WithLogger(c.logger),
	)

	for {
		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, c.path); err != nil {
			return err
		}

		session.Reset()

		m, loadErr := session.LoadFile(c.path)

		c.logger.TraceContext(
			ctx,
			"editor load attempt",
			slog.String("path", c.path),
			slog.Bool("success", loadErr == nil),
		)

		if loadErr == nil {
			c.loaded = m

			return nil
		}

		// Show error and prompt.
		fmt.Fprintf(c.stderr, "\nLoad error: %s\n", loadErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}
	}
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}

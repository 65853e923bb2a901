package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
)

func (c *CLI) runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script|->",
		Short: "Run edit commands from a file, one per line, in a single session",
		Long: `Run executes one command per line against the same layout, so undo and
redo work between lines. Blank lines and lines starting with # are skipped.
The script stops at the first failing line and nothing is saved; otherwise
the final layout is saved once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				r = f
			}

			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			c.scripting = true
			defer func() { c.scripting = false }()

			n, err := c.runScript(cmd, r)
			if err != nil {
				return err
			}
			c.scripting = false
			if err := c.save(cmd.Context(), s); err != nil {
				return err
			}
			c.printSuccess("ran %d command%s", n, plural(n))
			return nil
		},
	}
}

// runScript executes each line of r and returns the number of commands run.
func (c *CLI) runScript(cmd *cobra.Command, r io.Reader) (int, error) {
	s, err := c.session(cmd.Context())
	if err != nil {
		return 0, err
	}
	logger := loggerFromContext(cmd.Context())

	count := 0
	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args, err := splitArgs(line)
		if err != nil {
			return count, fmt.Errorf("line %d: %w", lineNo, err)
		}
		logger.Debug("script", "line", lineNo, "args", args)

		switch args[0] {
		case "undo":
			if !s.editor.Undo() {
				c.printInfo("undo: nothing to undo")
			} else {
				c.printSuccess("undo")
			}
		case "redo":
			if !s.editor.Redo() {
				c.printInfo("redo: nothing to redo")
			} else {
				c.printSuccess("redo")
			}
		default:
			if err := c.scriptRoot(cmd).Execute(args); err != nil {
				return count, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("read script: %w", err)
	}
	return count, nil
}

// scriptRunner executes one script line with freshly built commands, so
// flag values never leak from one line into the next.
type scriptRunner struct {
	root *cobra.Command
}

func (c *CLI) scriptRoot(parent *cobra.Command) scriptRunner {
	root := &cobra.Command{
		Use:           "drawerfit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)
	root.SetContext(parent.Context())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.editCommands()...)
	return scriptRunner{root: root}
}

func (r scriptRunner) Execute(args []string) error {
	r.root.SetArgs(args)
	return r.root.ExecuteContext(r.root.Context())
}

// splitArgs splits a script line into words with shell quoting rules.
// Operators such as ; | & < > are not supported and must be quoted.
func splitArgs(line string) ([]string, error) {
	p := shellwords.NewParser()
	args, err := p.Parse(line)
	if err != nil {
		return nil, err
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("unquoted shell operator in %q", line)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return args, nil
}

package cli

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/drawerfit/internal/editor"
	"github.com/piwi3910/drawerfit/internal/engine"
)

// editCommands returns the commands that mutate the present layout. They
// are shared by the root command and the script runner.
func (c *CLI) editCommands() []*cobra.Command {
	return []*cobra.Command{
		c.addCommand(),
		c.moveCommand(),
		c.resizeCommand(),
		c.colorCommand(),
		c.labelCommand(),
		c.removeCommand(),
		c.clearCommand(),
		c.titleCommand(),
		c.drawerCommand(),
		c.suggestCommand(),
	}
}

// apply runs op against the session editor, reports the result and saves on
// success.
func (c *CLI) apply(cmd *cobra.Command, name string, op func(ed *editor.Editor) editor.Result) error {
	s, err := c.session(cmd.Context())
	if err != nil {
		return err
	}
	res := op(s.editor)
	loggerFromContext(cmd.Context()).Debug("edit", "op", name, "kind", res.Kind, "id", res.PlacementID)

	switch res.Kind {
	case editor.Blocked:
		return &BlockedError{Op: name, Reason: string(res.Reason)}
	case editor.Autofit:
		c.printWarning("%s: requested spot was taken, placed %s at (%g, %g)", name, res.PlacementID, res.X, res.Y)
	default:
		if res.PlacementID != "" && (name == "add" || name == "move") {
			c.printSuccess("%s: %s at (%g, %g)", name, res.PlacementID, res.X, res.Y)
		} else if res.PlacementID != "" {
			c.printSuccess("%s: %s", name, res.PlacementID)
		} else {
			c.printSuccess("%s", name)
		}
	}
	return c.commit(cmd.Context(), s)
}

func (c *CLI) addCommand() *cobra.Command {
	var x, y float64
	cmd := &cobra.Command{
		Use:   "add <bin-id>",
		Short: "Add a bin at a position, or at the first free spot when no position is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at := cmd.Flags().Changed("x") || cmd.Flags().Changed("y")
			return c.apply(cmd, "add", func(ed *editor.Editor) editor.Result {
				if at {
					return ed.Add(args[0], x, y)
				}
				return ed.AddAuto(args[0])
			})
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "left edge in inches")
	cmd.Flags().Float64Var(&y, "y", 0, "top edge in inches")
	return cmd
}

func (c *CLI) moveCommand() *cobra.Command {
	var x, y float64
	cmd := &cobra.Command{
		Use:   "move <placement-id>",
		Short: "Move a bin; collisions snap to the nearest free spot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, "move", func(ed *editor.Editor) editor.Result {
				return ed.Move(args[0], x, y)
			})
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "left edge in inches")
	cmd.Flags().Float64Var(&y, "y", 0, "top edge in inches")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

func (c *CLI) resizeCommand() *cobra.Command {
	var width, length float64
	cmd := &cobra.Command{
		Use:   "resize <placement-id>",
		Short: "Override the size of one bin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, "resize", func(ed *editor.Editor) editor.Result {
				return ed.Resize(args[0], width, length)
			})
		},
	}
	cmd.Flags().Float64Var(&width, "width", 0, "width in inches")
	cmd.Flags().Float64Var(&length, "length", 0, "length in inches")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("length")
	return cmd
}

func (c *CLI) colorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "color <placement-id> <#rgb|#rrggbb>",
		Short: "Set a bin's color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, "color", func(ed *editor.Editor) editor.Result {
				return ed.Recolor(args[0], args[1])
			})
		},
	}
}

func (c *CLI) labelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "label <placement-id> [text...]",
		Short: "Set a bin's label; no text clears it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, "label", func(ed *editor.Editor) editor.Result {
				return ed.Relabel(args[0], strings.Join(args[1:], " "))
			})
		},
	}
}

func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <placement-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a bin",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, "remove", func(ed *editor.Editor) editor.Result {
				return ed.Remove(args[0])
			})
		},
	}
}

func (c *CLI) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every bin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, "clear", func(ed *editor.Editor) editor.Result {
				return ed.Clear()
			})
		},
	}
}

func (c *CLI) titleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "title [text...]",
		Short: "Set the layout title",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, "title", func(ed *editor.Editor) editor.Result {
				return ed.SetTitle(strings.Join(args, " "))
			})
		},
	}
}

func (c *CLI) drawerCommand() *cobra.Command {
	var width, length float64
	cmd := &cobra.Command{
		Use:   "drawer",
		Short: "Resize the drawer; blocked if any bin would end up outside",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, "drawer", func(ed *editor.Editor) editor.Result {
				return ed.ResizeDrawer(width, length)
			})
		},
	}
	cmd.Flags().Float64Var(&width, "width", 0, "inner width in inches")
	cmd.Flags().Float64Var(&length, "length", 0, "inner length in inches")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("length")
	return cmd
}

func (c *CLI) suggestCommand() *cobra.Command {
	var (
		mode string
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Re-pack every bin into rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := engine.ParseMode(mode)
			if err != nil {
				return err
			}
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				s.editor.SetRand(rand.New(rand.NewSource(seed)))
			}

			res := s.editor.Suggest(m)
			loggerFromContext(cmd.Context()).Debug("suggest", "mode", m, "status", res.Status, "moved", res.Moved)
			switch {
			case res.Status == engine.PackBlocked:
				return &BlockedError{Op: "suggest", Reason: "bins do not fit in rows"}
			case res.Moved == 0:
				c.printInfo("suggest: layout already packed")
				return nil
			}
			c.printSuccess("suggest: moved %d bin%s", res.Moved, plural(res.Moved))
			return c.commit(cmd.Context(), s)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(engine.ModePack), fmt.Sprintf("ordering: %s or %s", engine.ModePack, engine.ModeRandom))
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the random mode")
	return cmd
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

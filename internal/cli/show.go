package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/drawerfit/internal/model"
)

func (c *CLI) showCommand() *cobra.Command {
	var noPreview bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the present layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			c.showLayout(s, !noPreview)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noPreview, "no-preview", false, "skip the drawer drawing")
	return cmd
}

// showLayout prints title, statistics, preview, placements and any flags.
func (c *CLI) showLayout(s *session, preview bool) {
	state := s.editor.State()
	sum := model.Summarize(state, s.catalog)

	title := state.LayoutTitle
	if title == "" {
		title = "Untitled drawer"
	}
	c.println(StyleTitle.Render(title))
	c.printKeyValue("Drawer", fmt.Sprintf("%g x %g in", state.DrawerWidth, state.DrawerLength))
	c.printKeyValue("Bins", fmt.Sprintf("%d", sum.Placed))
	c.printKeyValue("Floor used", fmt.Sprintf("%.1f%%", sum.Efficiency()))
	c.printKeyValue("History", fmt.Sprintf("undo %s, redo %s", yesNo(s.editor.CanUndo()), yesNo(s.editor.CanRedo())))

	if preview && state.DrawerWidth > 0 && state.DrawerLength > 0 {
		c.println(renderPreview(state, s.catalog))
	}

	for i, p := range state.Placements {
		size, ok := s.catalog.EffectiveSize(p)
		dims := "unknown bin"
		if ok {
			dims = fmt.Sprintf("%gx%g", size.Width, size.Length)
		}
		line := fmt.Sprintf("%c  %-8s  %-10s  (%g, %g)  %s", glyphFor(i), p.ID, p.BinID, p.X, p.Y, dims)
		if p.Label != "" {
			line += "  " + p.Label
		}
		c.printDetail("%s", line)
	}

	flags := s.editor.Conflicts()
	for _, o := range flags.Overlaps {
		c.printWarning("%s overlaps %s", o.A, o.B)
	}
	for _, id := range flags.OutOfBounds {
		c.printWarning("%s sticks out of the drawer", id)
	}
	for _, id := range flags.Unresolved {
		c.printWarning("%s references a bin that is not in the catalog", id)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

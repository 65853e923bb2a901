package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/drawerfit/internal/importer"
	"github.com/piwi3910/drawerfit/internal/project"
)

func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List or extend the bin catalog",
	}
	cmd.AddCommand(c.catalogListCommand(), c.catalogImportCommand())
	return cmd
}

func (c *CLI) catalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the bins that can be placed",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range s.catalog.Specs() {
				c.printf("%-12s %s\n", b.ID, StyleDim.Render(fmt.Sprintf("%gx%gx%g  %s", b.Width, b.Length, b.Height, b.Name)))
			}
			return nil
		},
	}
}

func (c *CLI) catalogImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Add bins from a spreadsheet to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())

			res := importer.Import(args[0])
			for _, w := range res.Warnings {
				c.printWarning("%s", w)
			}
			for _, e := range res.Errors {
				c.printError("%s", e)
			}
			if len(res.Bins) == 0 {
				return fmt.Errorf("no bins found in %s", filepath.Base(args[0]))
			}

			merged, added, err := project.MergeCatalog(s.catalog, res.Bins)
			if err != nil {
				return err
			}
			if added == 0 {
				c.printInfo("all %d bin%s already in the catalog", len(res.Bins), plural(len(res.Bins)))
				return nil
			}
			if err := project.SaveCatalog(s.catalogPath, merged); err != nil {
				return err
			}
			s.catalog = merged
			logger.Debug("catalog saved", "path", s.catalogPath, "bins", merged.Len())
			c.printSuccess("added %d bin%s", added, plural(added))
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/drawerfit/internal/export"
	"github.com/piwi3910/drawerfit/internal/normalize"
	"github.com/piwi3910/drawerfit/internal/project"
)

func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace the present layout with one exported earlier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			state, err := project.ImportLayout(args[0], s.catalog, s.limits)
			if err != nil {
				return err
			}
			s.editor.Import(state)
			c.printSuccess("imported %d bin%s from %s", len(state.Placements), plural(len(state.Placements)), filepath.Base(args[0]))
			return c.commit(cmd.Context(), s)
		},
	}
}

func (c *CLI) openCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <share-link|layout-param>",
		Short: "Replace the present layout with a shared one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			param := project.ShareParamFromURL(args[0])
			state, err := normalize.FromShareParam(param, s.catalog, s.limits)
			if err != nil {
				return err
			}
			s.editor.Import(state)
			c.printSuccess("opened shared layout with %d bin%s", len(state.Placements), plural(len(state.Placements)))
			return c.commit(cmd.Context(), s)
		},
	}
}

func (c *CLI) shareCommand() *cobra.Command {
	var (
		base   string
		qrPath string
		qrSize int
	)
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print a link that reopens the present layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			if base == "" {
				base = s.config.ShareBaseURL
			}
			link, err := project.ShareURL(base, s.editor.State())
			if err != nil {
				return err
			}
			c.println(StyleLink.Render(link))
			if qrPath != "" {
				if err := export.WriteShareQR(qrPath, link, qrSize); err != nil {
					return err
				}
				c.printFile(qrPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "base URL (default from config)")
	cmd.Flags().StringVar(&qrPath, "qr", "", "also write the link as a QR code PNG")
	cmd.Flags().IntVar(&qrSize, "qr-size", 512, "QR code size in pixels")
	return cmd
}

// exportFormats lists the formats accepted by the export command.
var exportFormats = []string{"json", "pdf", "labels", "dxf"}

func (c *CLI) exportCommand() *cobra.Command {
	var noQR bool
	cmd := &cobra.Command{
		Use:       "export <json|pdf|labels|dxf> <file>",
		Short:     "Write the present layout to a file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: exportFormats,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			format, path := strings.ToLower(args[0]), args[1]
			state := s.editor.State()
			prog := newProgress(loggerFromContext(cmd.Context()))

			switch format {
			case "json":
				err = project.ExportLayout(path, state)
			case "pdf":
				var opts export.PDFOptions
				if !noQR {
					if opts.ShareURL, err = project.ShareURL(s.config.ShareBaseURL, state); err != nil {
						return err
					}
				}
				err = export.ExportPDF(path, state, s.catalog, opts)
			case "labels":
				err = export.ExportLabels(path, state, s.catalog)
			case "dxf":
				err = export.ExportDXF(path, state, s.catalog)
			default:
				return fmt.Errorf("unknown export format %q (want one of %s)", args[0], strings.Join(exportFormats, ", "))
			}
			if err != nil {
				return err
			}
			prog.done("Exported " + filepath.Base(path))
			c.printFile(path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noQR, "no-qr", false, "omit the share QR code from PDF exports")
	return cmd
}

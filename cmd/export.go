package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"Whiteboard/internal/export"
)

var exportOpts = export.DefaultOptions

var exportCmd = &cobra.Command{
	Use:   "export <document> <output.png|.pdf|.svg>",
	Short: "Export a board to PNG, PDF or SVG",
	Long: `export writes a board to an image or document file. The format is
taken from the output file extension. Unless --width and --height are given
the page is fitted to the drawing.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := export.FormatOf(args[1]); err != nil {
			return err
		}
		doc, err := readDoc(cmd, args[0])
		if err != nil {
			return err
		}
		w, h, err := exportOpts.Size(doc)
		if err != nil {
			return err
		}
		if err := export.WriteFile(args[1], doc, exportOpts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d shapes to %s (%dx%d)\n", len(doc), args[1], w, h)
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.BoolVar(&fromStore, "id", false, "treat the first argument as a saved board id")
	f.IntVar(&exportOpts.Width, "width", 0, "page width, 0 fits the drawing")
	f.IntVar(&exportOpts.Height, "height", 0, "page height, 0 fits the drawing")
	f.Float64Var(&exportOpts.Margin, "margin", exportOpts.Margin, "margin kept right of and below the drawing")
	f.StringVar(&exportOpts.Background, "background", exportOpts.Background, "page background colour")
	rootCmd.AddCommand(exportCmd)
}

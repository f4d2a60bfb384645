package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/hittracker/hittracker/pkg/parser"
	"github.com/spf13/cobra"
)

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported line formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FORMAT\tDESCRIPTION")
			for _, f := range parser.Formats() {
				fmt.Fprintf(w, "%s\t%s\n", f.Name, f.Description)
			}
			fmt.Fprintf(w, "%s\t%s\n", parser.FormatAuto, "pick the best match from a sample of lines")
			return w.Flush()
		},
	}
}

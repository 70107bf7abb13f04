package cmd

import (
	"fmt"

	"github.com/jsphweid/leadsheet/chord"
	"github.com/jsphweid/leadsheet/parser"
	"github.com/spf13/cobra"
)

var chordTranspose int

func init() {
	rootCmd.AddCommand(chordCmd)
	chordCmd.Flags().IntVarP(&chordTranspose, "transpose", "t", 0, "half steps to move each chord")
}

var chordCmd = &cobra.Command{
	Use:   "chord SYMBOL...",
	Short: "Inspects chord symbols",
	Long:  `Parses each SYMBOL and prints its canonical form, quality, alterations and HTML.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, symbol := range args {
			c, err := parser.ParseChord(symbol)
			if err != nil {
				return fmt.Errorf("%q: %w", symbol, err)
			}
			if chordTranspose != 0 {
				c = c.Transpose(chordTranspose, c.Tonic.Direction())
			}
			fmt.Fprintf(out, "%s\n", c)
			fmt.Fprintf(out, "  quality:     %s\n", c.ID())
			for _, a := range c.Alterations {
				fmt.Fprintf(out, "  alteration:  %s\n", a)
			}
			fmt.Fprintf(out, "  html:        %s\n", c.Print(chord.HTML{}))
		}
		return nil
	},
}

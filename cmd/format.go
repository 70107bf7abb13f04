package cmd

import (
	"fmt"

	"github.com/jsphweid/leadsheet/chord"
	"github.com/jsphweid/leadsheet/model"
	"github.com/jsphweid/leadsheet/parser"
	"github.com/spf13/cobra"
)

var formatHTML bool

func init() {
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(transposeCmd)
	for _, c := range []*cobra.Command{formatCmd, transposeCmd} {
		c.Flags().BoolVar(&formatHTML, "html", false, "render chords as HTML")
	}
}

var formatCmd = &cobra.Command{
	Use:   "format [FILE]",
	Short: "Prints a leadsheet in canonical form",
	Long:  `Parses a leadsheet from FILE or stdin and prints it back in canonical form.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		song, err := readSong(cmd, args)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), render(song))
		return nil
	},
}

var transposeCmd = &cobra.Command{
	Use:   "transpose HALFSTEPS [FILE]",
	Short: "Transposes a leadsheet",
	Long:  `Parses a leadsheet from FILE or stdin, moves it by HALFSTEPS and prints it.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var halfSteps int
		if _, err := fmt.Sscan(args[0], &halfSteps); err != nil {
			return fmt.Errorf("HALFSTEPS must be an integer: %w", err)
		}
		song, err := readSong(cmd, args[1:])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), render(song.Transpose(halfSteps)))
		return nil
	},
}

func readSong(cmd *cobra.Command, args []string) (model.Song, error) {
	text, err := readInput(cmd, args)
	if err != nil {
		return model.Song{}, err
	}
	return parser.ParseSong(text)
}

func render(song model.Song) string {
	if formatHTML {
		return song.FormatWith(chord.HTML{})
	}
	return song.Format()
}

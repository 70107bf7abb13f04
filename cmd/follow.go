package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsphweid/leadsheet/chord"
	"github.com/jsphweid/leadsheet/midi"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var listPorts bool

func init() {
	rootCmd.AddCommand(followCmd)
	followCmd.Flags().BoolVar(&listPorts, "list", false, "list MIDI in ports and exit")
}

var followCmd = &cobra.Command{
	Use:   "follow [FILE]",
	Short: "Prints each bar as an external MIDI clock reaches it",
	Long: `Follows the MIDI timing clock on the configured in port (follow.port or
LEADSHEET_MIDI_PORT) and prints the bar of FILE that is playing. Start
rewinds to the first bar, Stop pauses and Continue resumes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer gomidi.CloseDriver()
		if listPorts {
			fmt.Fprint(cmd.OutOrStdout(), gomidi.GetInPorts().String())
			return nil
		}
		c, err := loadConfig()
		if err != nil {
			return err
		}
		song, err := readSong(cmd, args)
		if err != nil {
			return err
		}
		if len(song.Bars) == 0 {
			return fmt.Errorf("song has no bars to follow")
		}

		in, err := gomidi.InPort(c.Follow.Port)
		if err != nil {
			return fmt.Errorf("failed to open MIDI in port %d: %w", c.Follow.Port, err)
		}

		out := cmd.OutOrStdout()
		follower := midi.NewFollower(song, func(bar int) {
			b := song.Bars[bar]
			slog.Debug("bar", "index", bar, "section", b.Section)
			fmt.Fprintf(out, "%3d  %s\n", bar+1, b.Format(chord.Plain{}))
		})

		stop, err := gomidi.ListenTo(in, follower.Handle, gomidi.UseTimeCode())
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", in, err)
		}
		defer stop()
		slog.Info("following", "port", in.String(), "bars", len(song.Bars), "clocks_per_bar", midi.ClocksPerBar(song.Sig))

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		<-ctx.Done()
		return nil
	},
}

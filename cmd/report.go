package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"

	"github.com/jsphweid/leadsheet/file"
	"github.com/jsphweid/leadsheet/parser"
	"github.com/jsphweid/leadsheet/util"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var reportMax int

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVar(&reportMax, "max", 0, "stop after this many files (0 for all)")
}

var reportCmd = &cobra.Command{
	Use:   "report DIR",
	Short: "Parses every leadsheet under DIR and summarizes them",
	Long: `Walks DIR for .leadsheet and .txt files, parses them in parallel and
prints each file's key, bar count and distinct chords, then the files that
failed with the position of the failure.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := file.GatherLeadsheetPaths(args[0], reportMax)
		if err != nil {
			return fmt.Errorf("failed to gather leadsheets: %w", err)
		}
		results, err := analyze(paths)
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), results)
		return nil
	},
}

type songReport struct {
	path      string
	key       string
	bars      int
	chords    []string
	qualities []string
	err       error
}

// analyze parses each path on its own goroutine. Parse failures are kept in
// the report; only unreadable files abort.
func analyze(paths []string) ([]songReport, error) {
	numbered := file.CreateFileNumMap(paths)
	results := make([]songReport, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, i := range util.GetKeys(numbered) {
		i := i
		path := numbered[i]
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			results[i] = analyzeSong(path, string(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func analyzeSong(path, text string) songReport {
	r := songReport{path: path}
	song, err := parser.ParseSong(text)
	if err != nil {
		r.err = err
		return r
	}
	r.bars = len(song.Bars)
	if song.Key != nil {
		r.key = song.Key.String()
	}
	var chords, qualities []string
	for _, c := range song.Chords() {
		chords = append(chords, c.String())
		qualities = append(qualities, string(c.ID()))
	}
	sort.Strings(chords)
	sort.Strings(qualities)
	r.chords = util.Dedupe(chords)
	r.qualities = qualities
	return r
}

func printReport(w io.Writer, results []songReport) {
	width := 0
	for _, r := range results {
		width = util.Max(width, len(r.path))
	}

	var bars []int
	var failed []songReport
	qualityCounts := make(map[string]int)
	for _, r := range results {
		if r.err != nil {
			failed = append(failed, r)
			continue
		}
		bars = append(bars, r.bars)
		for _, q := range r.qualities {
			qualityCounts[q]++
		}
		key := r.key
		if key == "" {
			key = "-"
		}
		fmt.Fprintf(w, "%-*s  %-10s %4d bars  %v\n", width, r.path, key, r.bars, r.chords)
	}

	fmt.Fprintf(w, "\n%d songs, %d bars\n", len(bars), util.Sum(bars))
	for _, q := range util.GetKeys(qualityCounts) {
		fmt.Fprintf(w, "  %-20s %d\n", q, qualityCounts[q])
	}

	if len(failed) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d failed\n", len(failed))
	for _, r := range failed {
		fmt.Fprintf(w, "  %s: %v\n", r.path, r.err)
	}
}

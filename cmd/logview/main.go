package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/onlyoneleft/solver"
	"github.com/domino14/onlyoneleft/stats"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: logview <logfile> [search text]")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error loading log file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	entries, err := solver.ReadLog(f)
	if err != nil {
		fmt.Printf("Error parsing log file: %v\n", err)
		os.Exit(1)
	}
	search := ""
	if len(os.Args) > 2 {
		search = strings.Join(os.Args[2:], " ")
	}
	if err := render(os.Stdout, entries, search); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// render prints every meeting (or only those whose boards contain search)
// followed by the summary.
func render(w io.Writer, entries []solver.LogEntry, search string) error {
	meetings := lo.Filter(entries, func(e solver.LogEntry, _ int) bool {
		return e.Kind == solver.LogKindMeeting
	})
	if search != "" {
		meetings = lo.Filter(meetings, func(e solver.LogEntry, _ int) bool {
			return strings.Contains(e.Meeting, search) ||
				lo.SomeBy(e.BackwardPath, func(b string) bool { return strings.Contains(b, search) })
		})
	}
	for _, m := range meetings {
		fmt.Fprintf(w, "Meeting %d: %s\n", m.Seq, m.Meeting)
		fmt.Fprintf(w, "  forward paths: %d, stitched: %d, total: %d\n", m.ForwardPaths, m.Stitched, m.Total)
		for i, b := range m.BackwardPath {
			fmt.Fprintf(w, "  back %2d: %s\n", i, b)
		}
	}

	summary, ok := lo.Find(entries, func(e solver.LogEntry) bool {
		return e.Kind == solver.LogKindSummary
	})
	if !ok {
		fmt.Fprintln(w, "(no summary; the search may not have finished)")
		return nil
	}
	fmt.Fprintf(w, "\nSearch %s -> %s\n", summary.Initial, summary.Final)
	fmt.Fprintf(w, "  path count %d, max %d, threads %d\n", summary.PathCount, summary.MaxSolutions, summary.Threads)
	fmt.Fprintf(w, "  middle states %d, meetings %d, solutions %d\n", summary.MiddleStates, summary.Meetings, summary.Total)
	fmt.Fprintf(w, "  elapsed %dms, fingerprint %s\n", summary.ElapsedMs, summary.Fingerprint)
	if b := summary.ForwardBranching; b != nil {
		fmt.Fprintf(w, "  forward branching: mean %.2f, stdev %.2f, median %.1f, max %.0f (n=%d)\n",
			b.Mean, b.Stdev, b.Median, b.Max, b.N)
	}
	return printDepths(w, summary)
}

// printDepths draws histograms of the node counts per depth of both halves.
func printDepths(w io.Writer, summary solver.LogEntry) error {
	for _, half := range []struct {
		name  string
		nodes []int
	}{{"forward", summary.ForwardNodes}, {"backward", summary.BackwardNodes}} {
		fmt.Fprintf(w, "\n%s nodes by depth:\n", half.name)
		for d, n := range half.nodes {
			fmt.Fprintf(w, "  %2d: %d\n", d, n)
		}
		s := stats.NewSampler(stats.DefaultSampleSize)
		for d, n := range half.nodes {
			for range min(n, stats.DefaultSampleSize) {
				s.Push(float64(d))
			}
		}
		if err := s.FprintHistogram(w, max(1, len(half.nodes)), 40); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/delaneyj/observable/observer"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

const (
	casesKey   = "cases"
	repeatsKey = "repeats"
	onlyKey    = "only"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	cmd := &cli.Command{
		Name:  "benchmark_graph",
		Usage: "Run random layered dependency graphs of static and dynamic derived values",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  casesKey,
				Usage: "TOML or YAML file of benchmark cases, replacing the built in ones",
			},
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Timed runs per case; the fastest is reported",
				Value: 5,
			},
			&cli.StringFlag{
				Name:  onlyKey,
				Usage: "Only run cases whose name contains this text",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("benchmark failed")
	}
}

type result struct {
	sum      int
	count    int64
	duration time.Duration
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Info().Msg("starting graph benchmark, please wait")
	defer log.Info().Msg("finished graph benchmark")

	cases := defaultCases
	if path := cmd.String(casesKey); path != "" {
		loaded, err := loadCases(path)
		if err != nil {
			return err
		}
		cases = loaded
	}
	if only := cmd.String(onlyKey); only != "" {
		var filtered []benchmarkCase
		for _, c := range cases {
			if strings.Contains(c.Name, only) {
				filtered = append(filtered, c)
			}
		}
		cases = filtered
	}
	repeats := max(int(cmd.Uint(repeatsKey)), 1)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"size", "nSources", "read%", "static%",
		"nTimes", "test", "time", "updateRate", "title",
	})

	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return err
		}
		best := runCase(c, repeats)
		if c.ExpectedSum != 0 && float64(best.sum) != c.ExpectedSum {
			log.Warn().Str("case", c.Name).Int("sum", best.sum).Float64("expected", c.ExpectedSum).Msg("unexpected sum")
		}

		updateRate := float64(best.count) / (float64(best.duration) / float64(time.Millisecond))
		table.Append([]string{
			fmt.Sprintf("%dx%d", c.Width, c.TotalLayers),
			fmt.Sprint(c.NSources),
			fmt.Sprint(c.ReadFraction),
			fmt.Sprint(c.StaticFraction),
			humanize.Comma(c.Iterations),
			c.Name,
			fmt.Sprint(best.duration),
			humanize.Comma(int64(updateRate)),
			title(c),
		})
	}
	table.Render()
	return nil
}

func runCase(c benchmarkCase, repeats int) result {
	log.Info().Str("case", c.Name).Msg("running")
	counter := new(int64)
	rt := observer.NewRuntime(
		observer.WithLogger(log),
		observer.WithErrorHandler(func(w *observer.Watcher, err error) {
			log.Panic().Err(err).Str("case", c.Name).Msg("graph node failed")
		}),
	)
	graph := makeGraph(rt, c, counter)

	// warm up
	graph.run(c.Iterations, c.ReadFraction)

	best := result{duration: time.Hour}
	for i := 0; i < repeats; i++ {
		log.Debug().Str("case", c.Name).Int("run", i+1).Int("of", repeats).Msg("timing")
		*counter = 0
		start := time.Now()
		sum := graph.run(c.Iterations, c.ReadFraction)
		duration := time.Since(start)
		if duration < best.duration {
			best = result{sum: sum, count: *counter, duration: duration}
		}
	}
	return best
}

func title(c benchmarkCase) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d %d sources", c.Width, c.TotalLayers, c.NSources)
	if c.StaticFraction < 1 {
		sb.WriteString(" dynamic")
	}
	if c.ReadFraction < 1 {
		fmt.Fprintf(&sb, " read %0.2f%%", 100*c.ReadFraction)
	}
	return sb.String()
}

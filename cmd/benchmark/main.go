package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/delaneyj/observable/cmd/benchmark/templates"
	"github.com/delaneyj/observable/observer"
	"github.com/delaneyj/observable/state"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

const (
	widthsKey  = "widths"
	heightsKey = "heights"
	itersKey   = "iters"
	formatKey  = "format"
	profileKey = "profile"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Propagate writes through width x height chains of derived values",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  widthsKey,
				Usage: "Comma separated chain counts",
				Value: "1,10,100,1000",
			},
			&cli.StringFlag{
				Name:  heightsKey,
				Usage: "Comma separated chain lengths",
				Value: "1,10,100,1000",
			},
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Writes measured per grid cell",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  formatKey,
				Usage: "Output format: table or markdown",
				Value: "table",
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("benchmark failed")
	}
}

type grid struct {
	widths, heights []int
	iters           int
}

type suite struct {
	name string
	run  func(g grid, w, h int) *tachymeter.Metrics
}

func run(ctx context.Context, cmd *cli.Command) error {
	widths, err := parseInts(cmd.String(widthsKey))
	if err != nil {
		return fmt.Errorf("%s: %w", widthsKey, err)
	}
	heights, err := parseInts(cmd.String(heightsKey))
	if err != nil {
		return fmt.Errorf("%s: %w", heightsKey, err)
	}
	format := cmd.String(formatKey)
	if format != "table" && format != "markdown" {
		return fmt.Errorf("unknown format %q", format)
	}
	g := grid{widths: widths, heights: heights, iters: int(cmd.Uint(itersKey))}

	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	suites := []suite{
		{name: "observer", run: benchmarkObserver},
		{name: "state", run: benchmarkHost},
	}

	start := time.Now()
	log.Info().Msg("warming up")
	var rows []templates.Row
	for _, s := range suites {
		for _, w := range g.widths {
			for _, h := range g.heights {
				calc := s.run(g, w, h)
				rows = append(rows, templates.Row{
					Suite: s.name,
					Name:  fmt.Sprintf("propagate: %d * %d", w, h),
					Avg:   calc.Time.Avg,
					Min:   calc.Time.Min,
					P75:   calc.Time.P75,
					P99:   calc.Time.P99,
					Max:   calc.Time.Max,
				})
			}
		}
		log.Info().Str("suite", s.name).Dur("elapsed", time.Since(start)).Msg("suite finished")
	}

	if format == "markdown" {
		templates.WriteReport(os.Stdout, "Propagation", rows)
		return nil
	}
	renderTable(rows)
	return nil
}

func renderTable(rows []templates.Row) {
	tbl := table.NewWriter()
	tbl.SetTitle("Propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"suite", "benchmark", "avg", "min", "p75", "p99", "max"})
	for _, r := range rows {
		tbl.AppendRow(table.Row{r.Suite, r.Name, r.Avg, r.Min, r.P75, r.P99, r.Max})
	}
	tbl.Render()
}

func newRuntime() *observer.Runtime {
	return observer.NewRuntime(
		observer.WithLogger(log),
		observer.WithErrorHandler(func(w *observer.Watcher, err error) {
			log.Panic().Err(err).Msg("watcher failed")
		}),
	)
}

// benchmarkObserver builds w chains of h derived values over one source and a
// watcher at the end of each chain.
func benchmarkObserver(g grid, w, h int) *tachymeter.Metrics {
	tach := tachymeter.New(&tachymeter.Config{Size: g.iters})

	rt := newRuntime()
	src := observer.ObjectFrom(map[string]any{"v": 1})
	rt.Observe(src, nil)

	for i := 0; i < w; i++ {
		read := func() int { return src.Get("v").(int) + 1 }
		for j := 0; j < h; j++ {
			prev := read
			c := rt.Computed(func() (any, error) { return prev() + 1, nil })
			read = func() int { return c.Read().(int) }
		}
		last := read
		rt.Watch(func() (any, error) { return last(), nil }, nil, observer.WatcherOptions{})
	}

	for i := 0; i < g.iters; i++ {
		start := time.Now()
		src.Set("v", src.Get("v").(int)+1)
		tach.AddTime(time.Since(start))
	}
	return tach.Calc()
}

// benchmarkHost runs the same shape through hosts: each chain is a host whose
// computed keys read the previous key.
func benchmarkHost(g grid, w, h int) *tachymeter.Metrics {
	tach := tachymeter.New(&tachymeter.Config{Size: g.iters})

	rt := newRuntime()
	shared := observer.ObjectFrom(map[string]any{"v": 1})

	computed := make(map[string]state.Computed, h)
	for j := 0; j < h; j++ {
		prev := "v"
		if j > 0 {
			prev = "c" + strconv.Itoa(j-1)
		}
		computed["c"+strconv.Itoa(j)] = state.ComputedFunc(func(host *state.Host) (any, error) {
			return host.Get(prev).(int) + 1, nil
		})
	}
	last := "c" + strconv.Itoa(h-1)

	for i := 0; i < w; i++ {
		host := state.New(rt, state.Options{
			Name:     "chain" + strconv.Itoa(i),
			Data:     shared,
			Computed: computed,
		})
		host.Watch(last, func(any, any) error { return nil }, state.WatchOptions{})
	}

	for i := 0; i < g.iters; i++ {
		start := time.Now()
		shared.Set("v", shared.Get("v").(int)+1)
		tach.AddTime(time.Since(start))
	}
	return tach.Calc()
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, fmt.Errorf("%d is not a positive size", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sizes in %q", s)
	}
	return out, nil
}

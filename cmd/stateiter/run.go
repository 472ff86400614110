package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/stateiter/internal/counter"
	"github.com/tailored-agentic-units/stateiter/iterable"
	"github.com/tailored-agentic-units/stateiter/observability"
)

type runOptions struct {
	configFile  string
	name        string
	observer    string
	maxBuffered int
	interval    time.Duration
	verbose     bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [actions...]",
		Short: "Dispatch counter actions and print every state yielded",
		Long: `run dispatches the given actions (inc, dec) against a counter store
starting at 0 and prints each snapshot pulled from the iterable. The
iterable is unsubscribed once every dispatched change has been accounted
for, which ends the sequence.`,
		Example: `  stateiter run inc inc dec
  stateiter run --interval 100ms --verbose inc inc
  stateiter run --max-buffered 1 --observer record inc inc inc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			actions := make([]counter.Action, 0, len(args))
			for _, arg := range args {
				a, err := counter.ParseAction(arg)
				if err != nil {
					return err
				}
				actions = append(actions, a)
			}

			cfg, err := resolveConfig(cmd, &opts)
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))

			return runCounter(cmd.Context(), cmd.OutOrStdout(), logger, cfg, actions, opts.interval)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "Path to a JSON or YAML iterable config file")
	flags.StringVar(&opts.name, "name", "", "Iterable name used in events (overrides config)")
	flags.StringVar(&opts.observer, "observer", "", "Observers, comma separated: noop, slog, record (overrides config and env)")
	flags.IntVar(&opts.maxBuffered, "max-buffered", 0, "Pending snapshot cap, 0 for unbounded (overrides config and env)")
	flags.DurationVar(&opts.interval, "interval", 0, "Delay between dispatched actions")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging to stderr")

	return cmd
}

func runCounter(
	ctx context.Context,
	out io.Writer,
	logger *slog.Logger,
	cfg *iterable.Config,
	actions []counter.Action,
	interval time.Duration,
) error {
	recorder := observability.NewRecorder()
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))
	observability.RegisterObserver("record", recorder)

	s := counter.NewStore()
	it, err := iterable.New[int](s, cfg)
	if err != nil {
		return fmt.Errorf("failed to create iterable: %w", err)
	}

	var once sync.Once
	unsubscribe := func() { once.Do(it.Unsubscribe) }
	defer unsubscribe()

	seq := it.Sequence()

	initial, ok, err := seq.Next(ctx)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(out, "state: %d\n", initial)
	}

	pending := len(actions)
	if pending == 0 {
		unsubscribe()
	}

	producerCtx, cancelProducer := context.WithCancel(ctx)
	producerDone := make(chan struct{})
	go func() {
		defer close(producerDone)
		dispatch(producerCtx, s.Dispatch, actions, interval)
	}()
	defer func() {
		cancelProducer()
		<-producerDone
	}()

	for {
		var overflow *iterable.OverflowError

		for state, err := range seq.All(ctx) {
			if errors.As(err, &overflow) {
				break
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "state: %d\n", state)
			pending--
			if pending <= 0 {
				unsubscribe()
			}
		}

		if overflow == nil {
			break
		}

		logger.WarnContext(ctx, "snapshots dropped",
			slog.Int("dropped", overflow.Dropped),
			slog.Int("limit", overflow.Limit),
		)
		pending -= overflow.Dropped
		if pending <= 0 {
			unsubscribe()
		}
	}

	// every change is accounted for, but the producer may still be emitting
	// the last snapshot event
	<-producerDone

	m := it.Metrics()
	fmt.Fprintf(out, "delivered=%d buffered=%d dropped=%d\n", m.Delivered, m.Buffered, m.Dropped)

	if observability.Listed(cfg.Observer, "record") {
		printEventCounts(out, recorder)
	}

	return nil
}

func dispatch(ctx context.Context, fn func(counter.Action), actions []counter.Action, interval time.Duration) {
	for i, a := range actions {
		if i > 0 && interval > 0 {
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
		fn(a)
	}
}

func printEventCounts(out io.Writer, rec *observability.Recorder) {
	counts := make(map[observability.EventType]int)
	for _, t := range rec.Types() {
		counts[t]++
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	slices.Sort(types)

	for _, t := range types {
		fmt.Fprintf(out, "%s=%d\n", t, counts[observability.EventType(t)])
	}
}

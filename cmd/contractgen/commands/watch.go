package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/teranos/contractgen/config"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/internal/source"
	"github.com/teranos/contractgen/logger"
)

func newWatchCmd(ro *rootOptions) *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the IR document or config changes",
		Long: `Generate once, then watch the IR document and the project config file and
regenerate after every change. Regeneration is debounced (watch.debounce_ms)
and rate limited (watch.max_per_second). Failed runs are reported and the
previous output is left in place.

The IR document must be a local file.

Examples:
  contractgen watch
  contractgen watch --ir contracts.yaml --lang dart`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, ro, &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runWatch(ctx context.Context, ro *rootOptions, flags *buildFlags) error {
	ctx = logger.WithComponent(ctx, "watch")
	log := logger.LoggerFromContext(ctx)

	p, err := flags.project(ro)
	if err != nil {
		return err
	}
	src, err := source.Resolve(ctx, p.ir)
	if err != nil {
		return err
	}
	src.Close()
	if src.Remote {
		return errors.WithHint(
			errors.MarkInvalidConfig("cannot watch remote IR document %s", src.Input),
			"download it first or run `contractgen generate` instead")
	}

	paths := []string{src.Path}
	if p.configFile != "" {
		paths = append(paths, p.configFile)
	}
	debounce := time.Duration(p.cfg.Watch.DebounceMS) * time.Millisecond
	w, err := config.NewWatcher(debounce, paths...)
	if err != nil {
		return err
	}

	changes := make(chan []string, 1)
	w.OnChange(func(changed []string) {
		select {
		case changes <- changed:
		default:
			// a run is already queued and will pick up this change
		}
	})
	w.Start()
	defer w.Stop()

	rebuild := func(ctx context.Context) error {
		// reload so config edits apply
		current, err := flags.project(ro)
		if err != nil {
			return err
		}
		result, err := current.compile(ctx)
		if err != nil {
			return err
		}
		written, err := current.write(ctx, current.outDir, result)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Generated %d files in %s\n", len(written), current.outDir)
		return nil
	}

	pterm.Info.Printf("Watching %d files (Ctrl+C to stop)\n", len(paths))
	for _, path := range paths {
		log.Debugw("watching", logger.FieldFile, path)
	}
	limiter := rate.NewLimiter(rate.Limit(p.cfg.Watch.MaxPerSecond), 1)
	return watchLoop(ctx, changes, limiter, rebuild)
}

// watchLoop runs rebuild once, then once per received change set, never more
// often than limiter allows. Each run gets its own run id in the context it is
// logged with. Rebuild errors are reported and do not stop the loop. It
// returns nil when ctx is done.
func watchLoop(ctx context.Context, changes <-chan []string, limiter *rate.Limiter, rebuild func(ctx context.Context) error) error {
	log := logger.LoggerFromContext(ctx)
	run := func() {
		runCtx := logger.WithRunID(ctx, uuid.NewString())
		if err := rebuild(runCtx); err != nil {
			pterm.Error.Printf("Generation failed: %v\n", err)
			logger.LoggerFromContext(runCtx).Warnw("generation failed", logger.FieldError, err)
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-changes:
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			log.Infow("change detected",
				logger.FieldCount, len(changed),
				logger.FieldFile, changed)
			run()
		}
	}
}

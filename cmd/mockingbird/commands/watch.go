package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/mockingbird/internal/highlight"
	"git.home.luguber.info/inful/mockingbird/internal/logfields"
	"git.home.luguber.info/inful/mockingbird/internal/site"
	"git.home.luguber.info/inful/mockingbird/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Input    string        `arg:"" help:"Site input directory" type:"existingdir"`
	Output   string        `arg:"" help:"Output directory"`
	Interval time.Duration `help:"Also rebuild on this interval (0 disables)" default:"0s"`
	Debounce time.Duration `help:"Quiet period after a change before rebuilding" default:"300ms"`
}

func (w *WatchCmd) Run(ctx context.Context, _ *Global, _ *CLI) error {
	highlight.WarmUp()

	slog.Info("Watching for changes", logfields.Path(w.Input), logfields.Output(w.Output))
	watcher := watch.New(w.Input, w.rebuild,
		watch.WithDebounce(w.Debounce),
		watch.WithInterval(w.Interval),
		watch.WithIgnore(w.Output),
	)
	return watcher.Run(ctx)
}

// rebuild opens the input afresh so that added or removed files are seen.
func (w *WatchCmd) rebuild(ctx context.Context, trigger string) error {
	b, err := site.Open(ctx, w.Input, w.Output)
	if err != nil {
		return err
	}
	res, err := b.Build(ctx)
	if err != nil {
		return err
	}
	slog.Info("Site rebuilt",
		logfields.Trigger(trigger),
		logfields.Count(res.Site.Items()),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	return nil
}

package commands

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/highlight"
	"git.home.luguber.info/inful/mockingbird/internal/logfields"
	"git.home.luguber.info/inful/mockingbird/internal/metrics"
	"git.home.luguber.info/inful/mockingbird/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Input       string `arg:"" help:"Site input directory" type:"existingdir"`
	Output      string `arg:"" help:"Output directory"`
	MetricsFile string `name:"metrics-file" help:"Write build metrics in Prometheus text format to this file"`
}

func (b *BuildCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	highlight.WarmUp()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	recorder := metrics.NewPrometheusRecorder(reg)

	res, err := b.build(ctx, recorder)
	if b.MetricsFile != "" {
		if werr := metrics.WriteTextfile(b.MetricsFile, reg); werr != nil {
			slog.Warn("Failed to write metrics", logfields.Path(b.MetricsFile), logfields.Error(werr))
		}
	}
	if err != nil {
		return err
	}

	if !root.Quiet {
		if err := res.Site.Visualize(g.Out); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to print site tree").Build()
		}
	}
	return nil
}

func (b *BuildCmd) build(ctx context.Context, recorder metrics.Recorder) (*site.Result, error) {
	builder, err := site.Open(ctx, b.Input, b.Output, site.WithRecorder(recorder))
	if err != nil {
		return nil, err
	}
	return builder.Build(ctx)
}

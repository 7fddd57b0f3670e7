package commands

import (
	"context"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/site"
)

// TreeCmd implements the 'tree' command.
type TreeCmd struct {
	Input string `arg:"" help:"Site input directory" type:"existingdir"`
}

func (t *TreeCmd) Run(ctx context.Context, g *Global, _ *CLI) error {
	// Nothing is written, so the output directory is irrelevant.
	b, err := site.Open(ctx, t.Input, t.Input)
	if err != nil {
		return err
	}
	s, err := b.Discover()
	if err != nil {
		return err
	}
	if err := s.Visualize(g.Out); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to print site tree").Build()
	}
	return nil
}

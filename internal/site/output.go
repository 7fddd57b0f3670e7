package site

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/sourcegraph/conc/pool"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/metadata"
	"git.home.luguber.info/inful/mockingbird/internal/render"
	"git.home.luguber.info/inful/mockingbird/internal/slug"
	"git.home.luguber.info/inful/mockingbird/internal/taxonomy"
	"git.home.luguber.info/inful/mockingbird/internal/templates"
)

// OutputWriter writes files below Root, creating parent directories as
// needed.
type OutputWriter struct {
	Root string
}

// Path returns the absolute output path for rel.
func (w OutputWriter) Path(rel string) string {
	return filepath.Join(w.Root, rel)
}

func (w OutputWriter) create(rel string) (string, error) {
	dst := w.Path(rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return "", err
	}
	return dst, nil
}

// Write stores data at rel.
func (w OutputWriter) Write(rel string, data []byte) error {
	dst, err := w.create(rel)
	if err != nil {
		return err
	}
	// #nosec G306 -- site output is meant to be served publicly.
	return os.WriteFile(dst, data, 0o644)
}

// Copy copies the file at src to rel.
func (w OutputWriter) Copy(rel, src string) error {
	dst, err := w.create(rel)
	if err != nil {
		return err
	}
	// #nosec G304 -- src comes from the indexed input tree.
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// #nosec G302 G304 -- site output is meant to be served publicly.
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// writeOutputs writes every collection item that was given a permapath.
// Collections are written concurrently.
func (b *Builder) writeOutputs(ctx context.Context, site *taxonomy.Site) error {
	cols := site.Collections()
	errs := make([]error, len(cols))
	p := pool.New().WithContext(ctx)
	for i, c := range cols {
		p.Go(func(ctx context.Context) error {
			_, errs[i] = render.ParMapItems(ctx, c, b.settings.Build.Concurrency,
				func(_ context.Context, _ taxonomy.Kind, item taxonomy.Item) (struct{}, error) {
					return struct{}{}, b.writeItem(site, c, item)
				})
			return nil
		})
	}
	_ = p.Wait()
	return ferrors.ChainAll(errs...)
}

// writeItem renders item with its template. Without one, a source holding
// template markup is rendered as a template of its own and anything else is
// copied verbatim.
func (b *Builder) writeItem(site *taxonomy.Site, c *taxonomy.Collection, item taxonomy.Item) error {
	rel := filepath.ToSlash(item.RelativePath())
	permapath, ok, err := metadata.Lookup(item.Meta, metadata.Permapath)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryContent, "invalid metadata value type").
			WithContext("context", rel).
			Build()
	}
	if !ok {
		return nil
	}

	ctx := templates.Context{Site: site, Collection: c, Item: item}
	name, ok, err := metadata.Lookup(item.Meta, metadata.Template)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryContent, "invalid template value").
			WithContext("path", rel).
			Build()
	}

	var out string
	if ok {
		if out, err = b.engine.Render(name, ctx); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRender, "failed to render item").
				WithContext("path", rel).
				WithContext("template used", name).
				Build()
		}
	} else {
		// #nosec G304 -- item paths come from the indexed input tree.
		src, err := os.ReadFile(item.Path())
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read item").
				WithContext("path", rel).
				Build()
		}
		if !slug.IsTemplate(string(src)) {
			return b.writeOutput(permapath, src)
		}
		if err := checkUTF8(src, rel); err != nil {
			return err
		}
		if out, err = b.engine.RenderRaw(rel, string(src), ctx); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRender, "failed to render direct item").
				WithContext("path", rel).
				Build()
		}
	}
	return b.writeOutput(permapath, []byte(out))
}

func (b *Builder) writeOutput(rel string, data []byte) error {
	if err := b.output.Write(rel, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write output").
			WithContext("path", b.output.Path(rel)).
			Build()
	}
	return nil
}

package site

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
)

// StyleCompiler turns a Sass stylesheet into CSS.
type StyleCompiler interface {
	Compile(ctx context.Context, src, dst string) error
}

// ExecCompiler runs an external Sass compiler as
// "<Command> <Args...> --no-source-map <src> <dst>".
type ExecCompiler struct {
	Command string
	Args    []string
}

func (c ExecCompiler) Compile(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create stylesheet directory").
			WithContext("path", dst).
			Build()
	}

	args := append(append([]string{}, c.Args...), "--no-source-map", src, dst)
	// #nosec G204 -- the compiler is chosen by the site's own configuration.
	cmd := exec.CommandContext(ctx, c.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		b := ferrors.WrapError(err, ferrors.CategoryRender, "failed to compile stylesheet").
			WithContext("compiler", c.Command).
			WithContext("source path", src)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			b = b.WithContext("output", msg)
		}
		return b.Build()
	}
	return nil
}

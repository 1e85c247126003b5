package gen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/broady/pursgen"
	"github.com/broady/pursgen/cmd/pursgen/internal/inputs"
	"github.com/broady/pursgen/sink"
)

type Cmd struct {
	inputs.Flags `embed:""`

	Out    string `arg:"" optional:"" help:"Output directory (default: out_dir from config, or ./src)." type:"path"`
	Stdout bool   `help:"Print the module instead of writing files."`
	Header string `help:"Comment written at the top of the generated file."`

	stdout io.Writer `kong:"-"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := c.Load()
	if err != nil {
		return err
	}
	if c.Header != "" {
		cfg.Header = c.Header
	}

	g := pursgen.FromConfig(cfg).Logger(logger)

	out := c.stdout
	if out == nil {
		out = os.Stdout
	}

	if c.Stdout {
		text, err := g.Render(ctx)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, text)
		return err
	}

	dir := cfg.OutDir
	if c.Out != "" {
		dir = c.Out
	}

	res, err := g.GenerateTo(ctx, sink.NewFilesystemSink(dir))
	if err != nil {
		return err
	}
	for _, f := range res.Files {
		logger.InfoContext(ctx, "generated module",
			slog.String("module", res.Module.Name),
			slog.String("dir", dir),
			slog.String("path", f.Path),
			slog.Int("declarations", len(res.Module.Declarations)),
		)
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintf(out, "%d warning(s)\n", len(res.Warnings))
	}
	return nil
}

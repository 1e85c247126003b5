package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/broady/pursgen/cmd/pursgen/internal/check"
	"github.com/broady/pursgen/cmd/pursgen/internal/dev"
	"github.com/broady/pursgen/cmd/pursgen/internal/gen"
)

type CLI struct {
	Verbose bool `help:"Log debug output." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate a PureScript module from Go types."`
	Check   check.Cmd  `cmd:"" help:"Validate declarations without generating files."`
	Dev     dev.Cmd    `cmd:"" help:"Serve generated modules for preview."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	cli := &CLI{}
	parser := kong.Must(cli,
		kong.Name("pursgen"),
		kong.Description("Generate PureScript data declarations from Go types."),
		kong.UsageOnError(),
	)
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger(cli.Verbose)
	slog.SetDefault(logger)

	kctx.Bind(logger)
	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.FatalIfErrorf(kctx.Run())
}

package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/broady/pursgen"
	"github.com/broady/pursgen/cmd/pursgen/internal/inputs"
)

type Cmd struct {
	inputs.Flags `embed:""`

	stdout io.Writer `kong:"-"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	out := c.stdout
	if out == nil {
		out = os.Stdout
	}

	cfg, err := c.Load()
	if err != nil {
		return err
	}

	mod, err := pursgen.FromConfig(cfg).Logger(logger).Build(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Module %s: %d declarations\n", mod.Name, len(mod.Declarations))

	for _, w := range mod.Warnings {
		fmt.Fprintf(out, "! %s: %s\n", w.Code, w.Message)
	}

	if errs := mod.Validate(); len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(out, "✗ %s\n", err)
		}
		return fmt.Errorf("module %s has %d problem(s): %w", mod.Name, len(errs), errors.Join(errs...))
	}

	fmt.Fprintln(out, "✓ All declarations valid")
	return nil
}

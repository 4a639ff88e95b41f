package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/avatarctic/cached-catalog/go/internal/client/catalog"
)

func listCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print the product catalog once",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "skip the local cache and fetch now",
			},
			legacyFlag(),
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			v, err := s.load(ctx, cmd.Bool("legacy"), cmd.Bool("refresh"))
			if err != nil {
				return err
			}
			return writeView(s.stdout, resolveFormat(cmd.String("output"), s.stdout), v)
		},
	}
}

// load runs one orchestrated load, reports its origin on stderr and returns
// the result ready for rendering.
func (s *session) load(ctx context.Context, legacy, refresh bool) (view, error) {
	if legacy {
		res, err := run(ctx, s.legacy, refresh)
		if err != nil {
			return view{}, err
		}
		writeStatus(s.stderr, res)
		return legacyView(res.Value), nil
	}
	res, err := run(ctx, s.products, refresh)
	if err != nil {
		return view{}, err
	}
	writeStatus(s.stderr, res)
	return productView(res.Value), nil
}

func run[T any](ctx context.Context, l *catalog.Loader[T], refresh bool) (*catalog.Result[T], error) {
	if refresh {
		return l.Refresh(ctx)
	}
	return l.Load(ctx)
}

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	config "github.com/avatarctic/cached-catalog/go/configs"
	"github.com/avatarctic/cached-catalog/go/internal/client/catalog"
	"github.com/avatarctic/cached-catalog/go/internal/client/fetch"
	"github.com/avatarctic/cached-catalog/go/internal/client/timedcache"
	"github.com/avatarctic/cached-catalog/go/internal/core/domain/product"
)

// session holds what every subcommand needs once global flags are parsed.
type session struct {
	logger *logrus.Logger
	client *fetch.Client
	ttl    time.Duration
	stdout io.Writer
	stderr io.Writer

	products *catalog.Loader[[]product.Product]
	legacy   *catalog.Loader[[]product.LegacyProduct]
}

// NewApp builds the command tree. Flag defaults come from defaults, and each
// global flag can also be set through its environment variable.
func NewApp(defaults config.ClientConfig, stdout, stderr io.Writer) *cli.Command {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	s := &session{stdout: stdout, stderr: stderr}

	app := &cli.Command{
		Name:      "catalog-client",
		Usage:     "Read the product catalog through a local cache",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(defaults),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, s.init(cmd)
		},
	}
	app.Commands = append(app.Commands,
		listCommand(s),
		watchCommand(s),
	)
	return app
}

func (s *session) init(cmd *cli.Command) error {
	s.logger = logrus.New()
	s.logger.SetOutput(s.stderr)
	s.logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	level, err := logrus.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", cmd.String("log-level"), err)
	}
	s.logger.SetLevel(level)

	client, err := fetch.New(cmd.String("base-url"),
		fetch.WithTimeout(cmd.Duration("timeout")),
		fetch.WithLogger(s.logger),
	)
	if err != nil {
		return err
	}
	s.client = client
	s.ttl = cmd.Duration("cache-ttl")

	s.products = catalog.NewProductLoader(client, timedcache.New[[]product.Product](s.ttl), s.logger)
	s.legacy = catalog.NewLegacyProductLoader(client, timedcache.New[[]product.LegacyProduct](s.ttl), s.logger)
	return nil
}

// ExitCode maps an error returned by the app to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, catalog.ErrNoData):
		return 2
	default:
		return 1
	}
}

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/avatarctic/cached-catalog/go/internal/client/catalog"
)

func watchCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Reload the catalog on an interval, showing whether each round hit the cache",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "time between loads",
				Value:   30 * time.Second,
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "stop after this many loads (0 runs until interrupted)",
			},
			legacyFlag(),
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			interval := cmd.Duration("interval")
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return s.watch(ctx, interval, int(cmd.Int("count")), cmd.Bool("legacy"), resolveFormat(cmd.String("output"), s.stdout))
		},
	}
}

// watch loads every interval until ctx is done or count rounds have run. A
// round without any data is reported and the loop keeps going; the last such
// error is returned when the loop ends without ever succeeding.
func (s *session) watch(ctx context.Context, interval time.Duration, count int, legacy bool, format string) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	succeeded := false
	for round := 1; ; round++ {
		fmt.Fprintf(s.stderr, "round %d\n", round)
		v, err := s.load(ctx, legacy, false)
		switch {
		case err == nil:
			succeeded = true
			if werr := writeView(s.stdout, format, v); werr != nil {
				return werr
			}
		case errors.Is(err, catalog.ErrNoData):
			lastErr = err
			fmt.Fprintf(s.stderr, "error: %v\n", err)
		default:
			return err
		}

		if count > 0 && round >= count {
			break
		}
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"rounds": round}).Debug("watch stopped")
			}
			return finalWatchError(succeeded, lastErr)
		case <-ticker.C:
		}
	}
	return finalWatchError(succeeded, lastErr)
}

func finalWatchError(succeeded bool, lastErr error) error {
	if succeeded {
		return nil
	}
	return lastErr
}

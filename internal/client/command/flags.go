package command

import (
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	config "github.com/avatarctic/cached-catalog/go/configs"
	"github.com/avatarctic/cached-catalog/go/internal/client/fetch"
	"github.com/avatarctic/cached-catalog/go/internal/client/timedcache"
)

var outputFormats = []string{"table", "json", "yaml"}

func globalFlags(defaults config.ClientConfig) []cli.Flag {
	baseURL := defaults.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	timeout := defaults.FetchTimeout
	if timeout <= 0 {
		timeout = fetch.DefaultTimeout
	}
	ttl := defaults.CacheTTL
	if ttl <= 0 {
		ttl = timedcache.DefaultWindow
	}

	return []cli.Flag{
		&cli.StringFlag{
			Name:    "base-url",
			Aliases: []string{"u"},
			Usage:   "catalog server base URL",
			Sources: cli.EnvVars("CATALOG_BASE_URL"),
			Value:   baseURL,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "per-request fetch timeout",
			Sources: cli.EnvVars("FETCH_TIMEOUT"),
			Value:   timeout,
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "how long a fetched catalog is served without refetching",
			Sources: cli.EnvVars("CLIENT_CACHE_TTL"),
			Value:   ttl,
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log level (debug, info, warn, error)",
			Sources: cli.EnvVars("LOG_LEVEL"),
			Value:   "warn",
		},
	}
}

func outputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format: table, json or yaml (default: table on a terminal, json otherwise)",
		Validator: func(value string) error {
			if value == "" || slices.Contains(outputFormats, value) {
				return nil
			}
			return fmt.Errorf("invalid output format %q, expected one of %v", value, outputFormats)
		},
	}
}

func legacyFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "legacy",
		Usage: "read the flat /api/productlist endpoint instead of /api/products",
	}
}

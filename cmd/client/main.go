package main

import (
	"context"
	"fmt"
	"os"

	config "github.com/avatarctic/cached-catalog/go/configs"
	"github.com/avatarctic/cached-catalog/go/internal/client/command"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	app := command.NewApp(cfg.Client, os.Stdout, os.Stderr)
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(command.ExitCode(err))
	}
}

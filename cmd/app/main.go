// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/accounts/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "accounts",
		Usage:   "User accounts API with authentication and authorization",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the API server, metrics server and outbox worker",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-admin",
				Usage: "Create an admin account directly in storage",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "full-name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Admin's full name",
					},
					&cli.StringFlag{
						Name:     "birth-date",
						Aliases:  []string{"b"},
						Required: true,
						Usage:    "Admin's birth date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "Admin's email address",
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Admin's password (must satisfy the strength policy)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateAdmin(
						ctx,
						cmd.String("full-name"),
						cmd.String("birth-date"),
						cmd.String("email"),
						cmd.String("password"),
						commands.DefaultIO(),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

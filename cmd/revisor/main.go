package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/revisor/internal/version"
)

func main() {
	cmd := &cli.Command{
		Name:    "revisor",
		Usage:   "AI-assisted editing of HTML documents with reviewable diffs",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Environment name; selects config/<env>.yaml",
				Value:   "local",
				Sources: cli.EnvVars("ENV"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serve,
			},
			{
				Name:      "diff",
				Usage:     "Print the word diff of two files",
				ArgsUsage: "<old> <new>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: html, blocks, lines or stats",
						Value: "html",
					},
				},
				Action: diffFiles,
			},
		},
		DefaultCommand: "serve",
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "revisor:", err)
		os.Exit(1)
	}
}

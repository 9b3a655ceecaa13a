package main

import (
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"framer2mdx/internal/convert"
	"framer2mdx/internal/runs"
	"framer2mdx/pkg/db"
)

func main() {
	app := &cli.App{
		Name:  "framer2mdx",
		Usage: "convert Framer-exported HTML snapshots into a Mintlify MDX documentation tree",
		Commands: []*cli.Command{
			{
				Name:   "convert",
				Usage:  "run the batch conversion over an export directory",
				Action: convert.ConvertAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input-dir",
						Usage:    "directory of exported .txt snapshot files",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "root of the generated MDX tree",
						Value: ".",
					},
					&cli.StringFlag{
						Name:  "images-dir",
						Usage: "root of the mirrored images tree",
						Value: "images",
					},
					&cli.StringFlag{
						Name:  "taxonomy",
						Usage: "YAML file with the target information architecture",
						Value: "taxonomy.yaml",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "path to the run-history database",
						Value: db.DefaultDBName,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "document worker pool size",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "asset-workers",
						Usage: "per-document image download pool size",
						Value: 4,
					},
					&cli.StringFlag{
						Name:  "asset-host",
						Usage: "host suffix whose images are mirrored locally",
						Value: "framerusercontent.com",
					},
					&cli.StringSliceFlag{
						Name:  "insecure-host",
						Usage: "host suffix fetched without TLS verification (defaults to the asset host)",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "per-asset fetch timeout",
						Value: 30 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "force-fetch",
						Usage: "re-download assets even when already mirrored on disk",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:   "runs",
				Usage:  "list recorded conversion runs",
				Action: runs.ListAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "path to the run-history database",
						Value: db.DefaultDBName,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "number of runs to show",
						Value: 20,
					},
				},
				Subcommands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "show one run's document and asset outcomes (latest if no ID)",
						ArgsUsage: "[run-id]",
						Action:    runs.ShowAction,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "db",
								Usage: "path to the run-history database",
								Value: db.DefaultDBName,
							},
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

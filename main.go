// Command teebay runs the teeBay marketplace API.
//
// @title teeBay API
// @version 1.0
// @description Peer-to-peer marketplace: list products, then buy or rent them.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/teebay/teebay-api/config"
	"github.com/teebay/teebay-api/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "teebay",
		Usage:  "peer-to-peer marketplace API",
		Action: serveCommand,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server (default)",
				Action: serveCommand,
			},
			{
				Name:  "migrate",
				Usage: "apply or revert the database schema",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "apply all pending migrations",
						Action: migrateCommand(db.Up),
					},
					{
						Name:   "down",
						Usage:  "revert every migration",
						Action: migrateCommand(db.Down),
					},
				},
			},
		},
	}
}

func migrateCommand(dir db.Direction) cli.ActionFunc {
	return func(*cli.Context) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		return db.RunMigrations(cfg.DB, dir)
	}
}

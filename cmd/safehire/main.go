package main

import (
	"io"
	"log"
	"os"

	"safehire/internal/config"
	applog "safehire/internal/log"
	"safehire/internal/repos"
	"safehire/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
			log.SetOutput(out)
		}
	}
	applog.Setup(out, cfg.LogLevel)

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if cfg.SeedDemo {
		if err := repos.SeedDemo(db); err != nil {
			log.Fatal(err)
		}
	}

	app := server.New(cfg, db)
	applog.Logger().Info("server.start", "port", cfg.Port, "identity_mode", cfg.Identity.Mode)
	log.Fatal(app.Listen(":" + cfg.Port))
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/classbook/apps/shared"
	"github.com/trezcool/classbook/core"
	"github.com/trezcool/classbook/storage/database"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// migrate & seed always target postgres; the other commands use the configured backend
	var backend *shared.Backend
	if !isDBCommand(os.Args) {
		backend, err = shared.OpenBackend(context.Background(), conf)
		errAndDie(err)
	}

	// start CLI
	cli := commandLine{
		out:     os.Stdout,
		backend: backend,
		openDB: func() (*sqlx.DB, error) {
			if err := database.CreateIfNotExist(context.Background(), conf); err != nil {
				return nil, err
			}
			return database.Open(conf)
		},
	}
	err = cli.run(os.Args)
	if backend != nil {
		_ = backend.Close()
	}
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func isDBCommand(args []string) bool {
	return len(args) > 1 && (args[1] == "migrate" || args[1] == "seed")
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

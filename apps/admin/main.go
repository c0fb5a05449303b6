package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/mawingu/darasa/core"
	"github.com/mawingu/darasa/storage/database"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	// set up DB
	db, err := database.OpenAdmin(conf)
	errAndDie(err)
	defer func(db *sqlx.DB) { _ = db.Close() }(db)

	// start CLI
	cli := commandLine{
		conf: conf,
		db:   db,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

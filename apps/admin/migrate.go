package main

import (
	"github.com/pressly/goose"

	"github.com/mawingu/darasa/storage/database"
)

// mockable
var (
	gooseRunFunc  = goose.Run
	migrateUpFunc = database.Migrate
)

const migrationsDir = "storage/database/migrations"

func (cli *commandLine) migrate(args []string) error {
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}
	// "up" goes through the same bootstrap path the API server uses
	if command == "up" {
		return migrateUpFunc(cli.db, cli.conf)
	}

	if err := goose.SetDialect(cli.conf.Database.Engine); err != nil {
		return err
	}
	var arguments []string
	if len(args) > 1 {
		arguments = args[1:]
	}
	return gooseRunFunc(command, cli.db.DB, migrationsDir, arguments...)
}

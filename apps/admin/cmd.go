package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mawingu/darasa/core"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf *core.Config
	db   *sqlx.DB
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate [up|down|status|version] - apply database migrations")
	fmt.Println("  mktoken -first FIRST -last LAST -email EMAIL [-admin] - mint an operator token")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	mkTokenCmd := flag.NewFlagSet("mktoken", flag.ExitOnError)
	mkTokenFirst := mkTokenCmd.String("first", "", "The operator's first name.")
	mkTokenLast := mkTokenCmd.String("last", "", "The operator's last name.")
	mkTokenEmail := mkTokenCmd.String("email", "", "The operator's email.")
	mkTokenAdmin := mkTokenCmd.Bool("admin", false, "Grant admin rights.")

	switch args[1] {
	case "migrate":
		return cli.migrate(args[2:])
	case "mktoken":
		if err := mkTokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *mkTokenFirst == "" || *mkTokenLast == "" || *mkTokenEmail == "" {
			mkTokenCmd.Usage()
			return errHelp
		}
		return cli.mkToken(*mkTokenFirst, *mkTokenLast, *mkTokenEmail, *mkTokenAdmin)
	default:
		cli.printUsage()
		return errHelp
	}
}

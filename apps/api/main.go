package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/mawingu/darasa/apps/api/echo"
	"github.com/mawingu/darasa/core"
	"github.com/mawingu/darasa/core/activity"
	emailsvc "github.com/mawingu/darasa/services/email"
	formatsvc "github.com/mawingu/darasa/services/format"
	logsvc "github.com/mawingu/darasa/services/logger"
	"github.com/mawingu/darasa/storage/database"
	sqlxrepos "github.com/mawingu/darasa/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal("setting up DB", err)
	}
	defer db.Close()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	fmtr := formatsvc.NewLocaleFormatter(conf)
	actSvc := activity.NewService(sqlxrepos.NewActivityRepository(db), mailSvc, fmtr)

	validate, translator := core.NewValidators()

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:     conf.Server.Address(),
			Conf:        conf,
			Logger:      logger,
			ActivitySvc: actSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)
	app.Start()
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db, conf); err != nil {
		return nil, err
	}
	return db, nil
}

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/core/assessment"
	"github.com/oiorda/orda/core/user"
	"github.com/oiorda/orda/services/email"
	"github.com/oiorda/orda/services/logger"
	"github.com/oiorda/orda/storage/database"
	"github.com/oiorda/orda/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	// set up services
	mailSvc := emailsvc.NewService(conf, logger, log.New(os.Stdout, "EMAIL : ", log.LstdFlags))
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	assmSvc := assessment.NewService(sqlxrepos.NewAssessmentRepository(db), usrSvc, mailSvc, logger, conf)

	// start CLI
	cli := commandLine{
		db:      db,
		usrSvc:  usrSvc,
		assmSvc: assmSvc,
		out:     os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			fmt.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

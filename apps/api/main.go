package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	echoapi "github.com/oiorda/orda/apps/api/echo"
	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/core/assessment"
	"github.com/oiorda/orda/core/assistant"
	"github.com/oiorda/orda/core/user"
	assistantsvc "github.com/oiorda/orda/services/assistant"
	"github.com/oiorda/orda/services/email"
	"github.com/oiorda/orda/services/logger"
	"github.com/oiorda/orda/storage/database"
	"github.com/oiorda/orda/storage/database/inmem"
	"github.com/oiorda/orda/storage/database/sqlx"
)

type repositories struct {
	users       user.Repository
	assessments assessment.Repository
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	db, repos, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	if db != nil {
		defer func() {
			if err = db.Close(); err != nil {
				dbLogger.Error("Failed to close", err)
			}
		}()
	}

	// set up services
	mailSvc := emailsvc.NewService(
		conf,
		logger,
		log.New(os.Stdout, "EMAIL : ", log.LstdFlags|log.Lmicroseconds),
	)
	usrSvc := user.NewService(repos.users)
	assmSvc := assessment.NewService(repos.assessments, usrSvc, mailSvc, logger, conf)

	var model assistant.Model
	if conf.Assistant.Enabled {
		gemini, err := assistantsvc.NewGeminiModel(context.Background(), conf)
		switch {
		case err == nil:
			model = gemini
			defer func() { _ = gemini.Close() }()
		case errors.Is(err, assistant.ErrOffline):
			logger.Warn("assistant API key missing, replying offline")
		default:
			logger.Error(fmt.Sprintf("setting up assistant model: %v", err), err)
		}
	}
	astSvc := assistant.NewService(model, assmSvc, logger, conf)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("database").Set(conf.Database.Engine)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:       conf.Server.Host,
			Conf:          conf,
			Logger:        logger,
			UserSvc:       usrSvc,
			AssessmentSvc: assmSvc,
			AssistantSvc:  astSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpDB returns the repositories of the configured engine. db is nil for the memory engine.
func setUpDB(conf *core.Config) (*sqlx.DB, repositories, error) {
	if conf.Database.Engine == "memory" {
		mem := inmemdb.Open()
		return nil, repositories{
			users:       inmemdb.NewUserRepository(mem),
			assessments: inmemdb.NewAssessmentRepository(mem),
		}, nil
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, repositories{}, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, repositories{}, err
	}
	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, repositories{}, err
	}
	return db, repositories{
		users:       sqlxrepos.NewUserRepository(db),
		assessments: sqlxrepos.NewAssessmentRepository(db),
	}, nil
}

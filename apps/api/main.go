package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assess"
	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/live"
	"github.com/trezcool/darasa/core/subject"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	mediasvc "github.com/trezcool/darasa/services/media"
	"github.com/trezcool/darasa/storage/mongodb"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.RollbarToken != "" {
		rollbar := logsvc.NewRollbarLogger(std, conf)
		rollbar.Enable(!conf.Debug)
		logger = rollbar
	} else {
		logger = logsvc.NewStdLogger(std)
	}

	db, err := mongodb.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() {
		if err = db.Client().Disconnect(context.Background()); err != nil {
			logger.Error(fmt.Sprintf("disconnecting database: %v", err), err)
		}
	}()
	if err = mongodb.EnsureIndexes(context.Background(), db); err != nil {
		logger.Fatal(fmt.Sprintf("ensuring indexes: %v", err), err)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	mediaSvc, err := mediasvc.NewDiskStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up media store: %v", err), err)
	}

	usrSvc := user.NewService(mongodb.NewUserRepository(db), mailSvc, conf)
	clsSvc := class.NewService(mongodb.NewClassRepository(db), usrSvc)
	assessSvc := assess.NewService(mongodb.NewAssessRepository(db), usrSvc, clsSvc)
	subjectSvc := subject.NewService(mongodb.NewSubjectRepository(db), usrSvc, mediaSvc)
	liveSvc := live.NewService(mongodb.NewLiveRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UserSvc:    usrSvc,
			ClassSvc:   clsSvc,
			AssessSvc:  assessSvc,
			SubjectSvc: subjectSvc,
			LiveSvc:    liveSvc,
			MediaSvc:   mediaSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

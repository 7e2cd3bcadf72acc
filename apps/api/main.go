package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/assignment"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/roster"
	"github.com/darasahq/darasa/core/stats"
	emailsvc "github.com/darasahq/darasa/services/email"
	logsvc "github.com/darasahq/darasa/services/logger"
	"github.com/darasahq/darasa/storage/database"
	failoverdb "github.com/darasahq/darasa/storage/database/failover"
	inmemdb "github.com/darasahq/darasa/storage/database/inmem"
	sqlxrepos "github.com/darasahq/darasa/storage/database/sqlx"
)

func main() {
	conf := &core.Conf

	// =========================================================================
	// Set up Dependencies

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up stores. When the durable store cannot be reached at boot we run
	// fully in memory; otherwise every repository falls back per call.
	mem := inmemdb.Open()
	attendanceRepo := attendance.Repository(inmemdb.NewAttendanceRepository(mem))
	assignmentRepo := assignment.Repository(inmemdb.NewAssignmentRepository(mem))
	rosterRepo := roster.Repository(inmemdb.NewRosterRepository(mem))

	db, err := setUpDB(conf)
	if err != nil {
		dbLogger.Error(fmt.Sprintf("durable store unavailable, running in memory: %v", err), err)
	} else {
		defer func() {
			if err := db.Close(); err != nil {
				dbLogger.Error("closing database", err)
			}
		}()
		attendanceRepo = failoverdb.NewAttendanceRepository(sqlxrepos.NewAttendanceRepository(db), attendanceRepo, dbLogger)
		assignmentRepo = failoverdb.NewAssignmentRepository(sqlxrepos.NewAssignmentRepository(db), assignmentRepo, dbLogger)
		rosterRepo = failoverdb.NewRosterRepository(sqlxrepos.NewRosterRepository(db), rosterRepo, dbLogger)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	rosterSvc := roster.NewService(rosterRepo)
	attendanceSvc := attendance.NewService(attendanceRepo)
	assignmentSvc := assignment.NewService(assignmentRepo, rosterSvc, mailSvc)
	statsSvc := stats.NewService(rosterSvc, attendanceSvc, assignmentSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("%s initializing : env %q", conf.AppName, conf.Env))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(&echoapi.ServerDeps{
		Address:       conf.Server.Address(),
		Logger:        logger,
		AttendanceSvc: attendanceSvc,
		AssignmentSvc: assignmentSvc,
		StatsSvc:      statsSvc,
		Validate:      validate,
		Translator:    translator,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-sigs:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
		stopServer(server, logger)

	case <-server.ShutdownSignal():
		logger.Info("integrity fault: Start shutdown...")
		stopServer(server, logger)
	}
}

func stopServer(server echoapi.Server, logger core.Logger) {
	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Ping(db); err != nil {
		return nil, err
	}
	if err = database.Migrate(db, conf); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	rollbarerrs "github.com/rollbar/rollbar-go/errors"

	"github.com/darasahq/darasa/core"
)

// RollbarLogger reports to Rollbar and echoes everything to a std logger.
// When disabled (DEV/TEST) only the std logger is used.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetStackTracer(rollbarerrs.StackTracer)
	return &RollbarLogger{std: std}
}

func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

func (l *RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	l.print(msg, args)
	rollbar.Debug(append([]interface{}{msg}, args...)...)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	l.print(msg, args)
	rollbar.Info(append([]interface{}{msg}, args...)...)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	l.print(msg, args)
	rollbar.Warning(append([]interface{}{msg}, args...)...)
}

func (l *RollbarLogger) Error(msg string, err error, args ...interface{}) {
	l.print(msg, append(args, err))
	rollbar.Error(append([]interface{}{msg, err}, args...)...)
}

func (l *RollbarLogger) Fatal(msg string, err error, args ...interface{}) {
	l.Error(msg, err, args...)
	rollbar.Wait()
	l.std.Fatal(msg)
}

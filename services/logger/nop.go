package logsvc

import "github.com/darasahq/darasa/core"

// nopLogger discards everything. Meant for tests.
type nopLogger struct{}

var _ core.Logger = (*nopLogger)(nil)

func NewNopLogger() core.Logger { return nopLogger{} }

func (nopLogger) Enable(bool)                                  {}
func (nopLogger) Debug(msg string, args ...interface{})        {}
func (nopLogger) Info(msg string, args ...interface{})         {}
func (nopLogger) Warn(msg string, args ...interface{})         {}
func (nopLogger) Error(msg string, err error, args ...interface{}) {}
func (nopLogger) Fatal(msg string, err error, args ...interface{}) {}

package logger

import (
	"go.uber.org/zap"
)

// New builds the application logger. Production gets JSON output with
// sampling, everything else the human-readable development config.
func New(env string) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if env == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return log
}

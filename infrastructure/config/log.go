package config

import (
	"path/filepath"

	"github.com/kaspanet/parcelsdk/infrastructure/logger"
	"github.com/pkg/errors"
)

const defaultLogLevel = "info"

// LogFlags holds the logging configuration shared by the command line tools.
type LogFlags struct {
	LogLevel string `long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	LogDir   string `long:"logdir" description:"Directory to log output. Logs go to stderr when not set"`
}

// InitLog starts the log backend for appName. Logs are written to stderr,
// or to rotated files inside LogDir when it is set.
func (logFlags *LogFlags) InitLog(appName string) error {
	logLevel := logFlags.LogLevel
	if logLevel == "" {
		logLevel = defaultLogLevel
	}
	err := logger.ParseAndSetLogLevels(logLevel)
	if err != nil {
		return err
	}

	if logFlags.LogDir == "" {
		err = logger.InitLogStderr(logger.LevelTrace)
		if err != nil {
			return errors.Wrap(err, "failed to start the log backend")
		}
		return nil
	}

	logFile := filepath.Join(logFlags.LogDir, appName+".log")
	errLogFile := filepath.Join(logFlags.LogDir, appName+"_err.log")
	return logger.InitLog(logFile, errLogFile)
}

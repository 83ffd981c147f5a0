package logger

import (
	"io"
	"os"

	"immunization_reporter/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the application logger: one logrus instance writing the same
// formatted lines to both the console and a size-rotated log file. The
// rotator creates the log directory on first write.
func New(cfg *config.AppConfig) *logrus.Logger {
	log := logrus.New()

	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogBackupCount,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true, // same bytes on console and file
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
	} else {
		log.SetLevel(level)
	}

	return log
}

// Package logging configures the application logger. The TUI owns
// stdout, so logs always go to a rotated file.
package logging

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup returns a logger writing to path with rotation. The file is
// created on first write.
func Setup(path string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	})
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	return log
}

package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the standard logrus logger. When file is non-empty the
// output goes to a rotating log file as well as stdout.
func Setup(level, file string) {
	var out io.Writer = os.Stdout
	if file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
	}
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// Writer exposes the configured output for middleware that wants a plain
// io.Writer, like the HTTP access log.
func Writer() io.Writer {
	return logrus.StandardLogger().Out
}

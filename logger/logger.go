package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger = logrus.New()
	mutex  sync.Mutex
)

type Fields = logrus.Fields

func init() {
	logger.SetFormatter(newFormatter())
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
}

func newFormatter() *formatter.Formatter {
	return &formatter.Formatter{
		NoColors:        false,
		TimestampFormat: "02 Jan 06 - 15:04:05",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	}
}

// Setup configures the level and, when file is set, adds a rotated log file
func Setup(debug bool, file string) {
	mutex.Lock()
	defer mutex.Unlock()

	if debug {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetReportCaller(true)
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetReportCaller(false)
	}
	writers := []io.Writer{os.Stderr}
	if file != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   file,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}
	logger.SetOutput(io.MultiWriter(writers...))
}

// L returns the underlying logger (e.g. to hand to other libraries)
func L() *logrus.Logger {
	return logger
}

func Debug(fields Fields, msg string) {
	logger.WithFields(fields).Debug(msg)
}

func Info(fields Fields, msg string) {
	logger.WithFields(fields).Info(msg)
}

func Warn(fields Fields, msg string) {
	logger.WithFields(fields).Warn(msg)
}

func Error(fields Fields, msg string) {
	logger.WithFields(fields).Error(msg)
}

package logger

import (
	"os"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"

	"github.com/sirupsen/logrus"
)

const moduleField = "module"

var logger = logrus.New()

// Text output with colors during development, JSON lines otherwise
func Init(config *config.Config) (err error) {
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return
	}
	logger.SetLevel(level)
	logger.SetOutput(os.Stdout)

	if config.IsDevelopment {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		return
	}

	logger.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	})
	return
}

func NewSublogger(tag string) *logrus.Entry {
	return logger.WithField(moduleField, "buy-my-tweet."+tag)
}

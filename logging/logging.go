package logging

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

/**
* Global logger
 */
var logger = logrus.New()

var skipPaths []string = []string{}
var logRequests bool = true

func Log() *logrus.Logger {
	return logger
}

/**
* Applies level and format to the global logger. Unknown levels keep the current one.
 */
func Configure(logLevel string, jsonLogging bool) {
	switch strings.ToUpper(logLevel) {
	case "TRACE":
		logger.SetLevel(logrus.TraceLevel)
	case "DEBUG":
		logger.SetLevel(logrus.DebugLevel)
	case "INFO":
		logger.SetLevel(logrus.InfoLevel)
	case "WARN":
		logger.SetLevel(logrus.WarnLevel)
	case "ERROR":
		logger.SetLevel(logrus.ErrorLevel)
	}

	if jsonLogging {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}
}

func GinHandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !logRequests {
			c.Next()
			return
		}
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		if contains(skipPaths, path) {
			return
		}

		entry := logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"client":    c.ClientIP(),
		})
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()
		if errorMessage != "" {
			entry.Warnf("Request failed - %s", errorMessage)
		} else if c.Writer.Status() >= 400 {
			entry.Info("Request was rejected.")
		} else {
			entry.Info("Request handled.")
		}
	}
}

/**
* Helper method to print objects with json-serialization information in a more human readable way
 */
func PrettyPrintObject(objectInterface interface{}) string {
	jsonBytes, err := json.Marshal(objectInterface)
	if err != nil {
		logger.Debugf("Was not able to pretty print the object: %v", objectInterface)
		return ""
	}
	return string(jsonBytes)
}

/**
* Cuts a credential down to something that can be logged.
 */
func ShortenToken(token string) string {
	if len(token) <= 12 {
		return "***"
	}
	return token[:6] + "..." + token[len(token)-6:]
}

func init() {
	enableJsonLogging, err := strconv.ParseBool(os.Getenv("JSON_LOGGING_ENABLED"))
	if err != nil {
		enableJsonLogging = false
	}
	Configure(os.Getenv("LOG_LEVEL"), enableJsonLogging)

	logRequestsEnv := os.Getenv("LOG_REQUESTS")
	if logRequestsEnv != "" {
		logRequests, err = strconv.ParseBool(logRequestsEnv)
		if err != nil {
			logger.Warnf("Invalid LOG_REQUESTS configured, will enable request logging by default. Err: %v.", err)
			logRequests = true
		}
	}

	skipPathsEnv := os.Getenv("LOG_SKIP_PATHS")
	if skipPathsEnv != "" {
		skipPaths = strings.Split(skipPathsEnv, ",")
		logger.Infof("Will skip request logging for paths %s.", skipPaths)
	}
}

func contains(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}

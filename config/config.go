package config

import (
	"os"
	"strconv"

	"github.com/subosito/gotenv"
	"github.com/usnistgov/oar-customer-service/logging"
)

var logger = logging.Log()

const (
	StoreBackendJson   = "json"
	StoreBackendBadger = "badger"
	StoreBackendMySql  = "mysql"
)

type Config interface {
	ServerPort() int

	OAuth2Endpoint() string
	GetEndpoint() string
	CreateEndpoint() string
	UpdateEndpoint() string
	EmailEndpoint() string
	TestEndpoint() string

	SecretKey() string
	Audience() string
	InstanceUrl() string
	AccessTokenExpiryMinutes() int64

	SenderEmail() string
	SenderPassword() string
	SmtpHost() string
	SmtpPort() int

	StoreBackend() string
	RecordsDbPath() string
	PublicKeysDbPath() string
}

/**
* Config read from the process environment.
 */
type EnvConfig struct{}

/**
* Loads the given dotenv files into the environment. Variables that are already set win.
* Missing files are ignored.
 */
func LoadDotEnv(files ...string) {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := gotenv.Load(file); err != nil {
			logger.Warnf("Was not able to load env file %s. Err: %v", file, err)
			continue
		}
		logger.Infof("Loaded environment from %s.", file)
	}
}

func (EnvConfig) ServerPort() int {
	return intOrDefault("SERVER_PORT", 8080)
}

func (EnvConfig) OAuth2Endpoint() string {
	return stringOrDefault("PDRCASE_OAUTH2_ENDPOINT", "/oauth2/token")
}

func (EnvConfig) GetEndpoint() string {
	return stringOrDefault("PDRCASE_GET_ENDPOINT", "/records")
}

func (EnvConfig) CreateEndpoint() string {
	return stringOrDefault("PDRCASE_CREATE_ENDPOINT", "/records")
}

func (EnvConfig) UpdateEndpoint() string {
	return stringOrDefault("PDRCASE_UPDATE_ENDPOINT", "/records")
}

func (EnvConfig) EmailEndpoint() string {
	return stringOrDefault("PDRCASE_EMAIL_ENDPOINT", "/email")
}

func (EnvConfig) TestEndpoint() string {
	return stringOrDefault("PDRCASE_TEST_ENDPOINT", "/test")
}

func (EnvConfig) SecretKey() string {
	secretKey := os.Getenv("SECRET_KEY")
	if secretKey == "" {
		logger.Warn("No SECRET_KEY configured, tokens can neither be issued nor validated.")
	}
	return secretKey
}

func (EnvConfig) Audience() string {
	audience := os.Getenv("AUDIENCE")
	if audience == "" {
		logger.Warn("No AUDIENCE configured, every assertion will be rejected.")
	}
	return audience
}

func (EnvConfig) InstanceUrl() string {
	return os.Getenv("INSTANCE_URL")
}

func (EnvConfig) AccessTokenExpiryMinutes() int64 {
	return int64(intOrDefault("ACCESS_TOKEN_EXPIRY_MINUTES", 60))
}

func (EnvConfig) SenderEmail() string {
	return os.Getenv("SENDER_EMAIL")
}

func (EnvConfig) SenderPassword() string {
	return os.Getenv("SENDER_PASSWORD")
}

func (EnvConfig) SmtpHost() string {
	return stringOrDefault("SMTP_HOST", "smtp.gmail.com")
}

func (EnvConfig) SmtpPort() int {
	return intOrDefault("SMTP_PORT", 587)
}

func (EnvConfig) StoreBackend() string {
	return stringOrDefault("STORE_BACKEND", StoreBackendJson)
}

func (EnvConfig) RecordsDbPath() string {
	return stringOrDefault("RECORDS_DB_PATH", "app/db.json")
}

func (EnvConfig) PublicKeysDbPath() string {
	return stringOrDefault("PUBLIC_KEYS_DB_PATH", "keys/public_keys.json")
}

func stringOrDefault(envVar string, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func intOrDefault(envVar string, defaultValue int) int {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logger.Warnf("Invalid value %s configured for %s, use default %d.", value, envVar, defaultValue)
		return defaultValue
	}
	return parsed
}

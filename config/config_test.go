package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnvConfigDefaults(t *testing.T) {
	for _, envVar := range []string{"SERVER_PORT", "PDRCASE_OAUTH2_ENDPOINT", "PDRCASE_GET_ENDPOINT", "STORE_BACKEND", "SMTP_PORT", "ACCESS_TOKEN_EXPIRY_MINUTES"} {
		t.Setenv(envVar, "")
	}
	config := EnvConfig{}

	if config.ServerPort() != 8080 {
		t.Errorf("Default port should be 8080, but was %d.", config.ServerPort())
	}
	if config.OAuth2Endpoint() != "/oauth2/token" {
		t.Errorf("Unexpected default oauth2 endpoint %s.", config.OAuth2Endpoint())
	}
	if config.GetEndpoint() != "/records" {
		t.Errorf("Unexpected default get endpoint %s.", config.GetEndpoint())
	}
	if config.StoreBackend() != StoreBackendJson {
		t.Errorf("Json store should be the default, but was %s.", config.StoreBackend())
	}
	if config.SmtpPort() != 587 {
		t.Errorf("Default smtp port should be 587, but was %d.", config.SmtpPort())
	}
	if config.AccessTokenExpiryMinutes() != 60 {
		t.Errorf("Default token expiry should be 60, but was %d.", config.AccessTokenExpiryMinutes())
	}
}

func TestEnvConfigValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PDRCASE_UPDATE_ENDPOINT", "/services/update")
	t.Setenv("SECRET_KEY", "secret")
	t.Setenv("AUDIENCE", "https://login.test")
	t.Setenv("SMTP_PORT", "not-a-number")
	config := EnvConfig{}

	if config.ServerPort() != 9090 {
		t.Errorf("Port should be 9090, but was %d.", config.ServerPort())
	}
	if config.UpdateEndpoint() != "/services/update" {
		t.Errorf("Unexpected update endpoint %s.", config.UpdateEndpoint())
	}
	if config.SecretKey() != "secret" || config.Audience() != "https://login.test" {
		t.Errorf("Secret and audience should be read from the env.")
	}
	if config.SmtpPort() != 587 {
		t.Errorf("Invalid ports should fall back to the default, but was %d.", config.SmtpPort())
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("INSTANCE_URL=https://instance.test\nAUDIENCE=from-file\n"), 0600); err != nil {
		t.Fatalf("Was not able to write env file: %v", err)
	}
	t.Setenv("INSTANCE_URL", "")
	os.Unsetenv("INSTANCE_URL")
	t.Setenv("AUDIENCE", "from-env")

	LoadDotEnv(filepath.Join(dir, "missing.env"), envFile)

	config := EnvConfig{}
	if config.InstanceUrl() != "https://instance.test" {
		t.Errorf("Instance url should be loaded from the file, but was %s.", config.InstanceUrl())
	}
	if config.Audience() != "from-env" {
		t.Errorf("Already set variables should not be overridden, but audience was %s.", config.Audience())
	}
}

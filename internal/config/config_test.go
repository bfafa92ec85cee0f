package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Env:             "development",
		LogLevel:        "info",
		APIBaseURL:      "http://localhost:8080/api",
		RequestTimeout:  15 * time.Second,
		CredentialsFile: "credentials.json",
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	c := validConfig()
	c.Env = "qa"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.APIBaseURL = "not-a-url"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.RequestTimeout = 0
	assert.Error(t, c.Validate())

	c = validConfig()
	c.CredentialsFile = ""
	assert.Error(t, c.Validate())
}

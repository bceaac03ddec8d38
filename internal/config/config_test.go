package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:         "8081",
		DataBackend:  "memory",
		AuthBackend:  "local",
		SessionTTL:   time.Hour,
		AMQPExchange: "contabil",
		AMQPQueue:    "transaction_events",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "notaport"
	cfg.DataBackend = "oracle"
	cfg.AuthBackend = "ldap"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"invalid port", "invalid data backend", "invalid auth backend"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error should mention %q, got:\n%s", want, msg)
		}
	}
}

func TestValidateGoogleBackendNeedsAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.AuthBackend = "google"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "Google API key") {
		t.Fatalf("expected missing API key error, got %v", err)
	}

	cfg.GoogleAPIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config with API key rejected: %v", err)
	}
}

func TestValidateDynamoBackendNeedsTable(t *testing.T) {
	cfg := validConfig()
	cfg.DataBackend = "dynamo"
	cfg.DynamoRegion = "us-east-1"
	cfg.DynamoTable = ""

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "table name") {
		t.Fatalf("expected missing table error, got %v", err)
	}
}

func TestValidateAMQPURLScheme(t *testing.T) {
	cfg := validConfig()
	cfg.AMQPURL = "http://localhost:5672/"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "AMQP URL scheme") {
		t.Fatalf("expected scheme error, got %v", err)
	}
}

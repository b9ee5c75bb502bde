package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "rzp_test_secret")
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("JWT_SECRET", "jwt_test")
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("WEBHOOK_ASYNC", "true")
	t.Setenv("WEBHOOK_STORE_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.CallbackURL() != "https://api.example.com/razorpay-webhook" {
		t.Fatalf("callback url = %q", cfg.CallbackURL())
	}
	if !cfg.Webhook.Async {
		t.Fatalf("expected async mode")
	}
	if cfg.Webhook.StoreTimeout != 3*time.Second {
		t.Fatalf("store timeout = %s", cfg.Webhook.StoreTimeout)
	}
	if cfg.Environment != "production" {
		t.Fatalf("default environment = %q", cfg.Environment)
	}
}

func TestLoadConfig_MissingGatewayCredentials(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "")
	t.Setenv("RAZORPAY_KEY_SECRET", "")
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "")
	t.Setenv("JWT_SECRET", "jwt_test")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for missing razorpay credentials")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("default port = %q", cfg.Port)
	}
	if cfg.Webhook.Async {
		t.Fatalf("async should default off")
	}
	if cfg.Webhook.StoreTimeout != 5*time.Second {
		t.Fatalf("default store timeout = %s", cfg.Webhook.StoreTimeout)
	}
}

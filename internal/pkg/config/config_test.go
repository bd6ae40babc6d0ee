package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestProcess_Defaults(t *testing.T) {
	cfg, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || !cfg.IsDevelopment() {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute || cfg.Auth.RefreshTokenTTL != 7*24*time.Hour {
		t.Errorf("unexpected token ttls: %+v", cfg.Auth)
	}
	if cfg.Orders.CancelWindow != time.Hour || cfg.Orders.DedupTTL != 10*time.Second {
		t.Errorf("unexpected order settings: %+v", cfg.Orders)
	}
	if cfg.SMTP.Port != 587 || cfg.Storage.CloudinaryURL != "" {
		t.Errorf("unexpected optional settings: smtp=%+v storage=%+v", cfg.SMTP, cfg.Storage)
	}
}

func TestProcess_Overrides(t *testing.T) {
	cfg, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":          "s3cret",
		"ENV":                 "production",
		"ORDER_CANCEL_WINDOW": "30m",
		"REDIS_DB":            "2",
		"CLOUDINARY_URL":      "cloudinary://k:s@demo",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.IsDevelopment() {
		t.Error("production must not be development")
	}
	if cfg.Orders.CancelWindow != 30*time.Minute || cfg.Redis.DB != 2 {
		t.Errorf("overrides not applied: %+v %+v", cfg.Orders, cfg.Redis)
	}
	if cfg.Storage.CloudinaryURL != "cloudinary://k:s@demo" {
		t.Errorf("unexpected cloudinary url %q", cfg.Storage.CloudinaryURL)
	}
}

func TestProcess_RequiresSecret(t *testing.T) {
	if _, err := process(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

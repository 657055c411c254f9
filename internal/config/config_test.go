package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestSetDefaultsUnmarshal(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults failed: %v", err)
	}
	cfg.normalize()

	if cfg.Site.PageSize != 10 {
		t.Fatalf("page size want 10 got %d", cfg.Site.PageSize)
	}
	if cfg.Site.BaseURL != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected base url %s", cfg.Site.BaseURL)
	}
	if cfg.Digest.Cron != "0 9 * * 1" || cfg.Digest.WindowDays != 7 {
		t.Fatalf("unexpected digest defaults %+v", cfg.Digest)
	}
	if len(cfg.Content.CensoredWords) != len(DefaultCensoredWords) {
		t.Fatalf("censored words want %v got %v", DefaultCensoredWords, cfg.Content.CensoredWords)
	}
	if !cfg.Email.UseSSL || cfg.Email.Port != 465 {
		t.Fatalf("smtp defaults should use implicit TLS on 465, got %+v", cfg.Email)
	}
	if len(cfg.OAuth.Yandex.Scopes) != 2 {
		t.Fatalf("unexpected yandex scopes %v", cfg.OAuth.Yandex.Scopes)
	}
}

func TestNormalizeRepairsInvalidValues(t *testing.T) {
	cfg := Config{}
	cfg.Site.BaseURL = " https://news.example.com/ "
	cfg.normalize()

	if cfg.Site.BaseURL != "https://news.example.com" {
		t.Fatalf("base url should be trimmed, got %q", cfg.Site.BaseURL)
	}
	if cfg.Site.PageSize != 10 || cfg.Digest.WindowDays != 7 {
		t.Fatalf("zero values should be repaired, got %+v %+v", cfg.Site, cfg.Digest)
	}
	if cfg.Metrics.Path != "/metrics" || cfg.OAuth.Yandex.StateTTLSeconds != 600 {
		t.Fatalf("unexpected metrics/oauth defaults %+v %+v", cfg.Metrics, cfg.OAuth.Yandex)
	}
	if cfg.Captcha.Image.Length != 5 || cfg.Captcha.Image.MaxStore != 10240 || cfg.Captcha.Image.ExpireSeconds != 300 {
		t.Fatalf("captcha image should fall back to defaults, got %+v", cfg.Captcha.Image)
	}
}

func TestLogConfigToLoggerOptions(t *testing.T) {
	opts := LogConfig{Level: "warn", Dir: "/tmp/x", Filename: "a.log", MaxSizeMB: 5}.ToLoggerOptions()
	if opts.Level != "warn" || opts.Dir != "/tmp/x" || opts.Filename != "a.log" || opts.MaxSizeMB != 5 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

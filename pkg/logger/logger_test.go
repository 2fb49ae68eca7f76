package logger_test

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/silentchat/relay-service/pkg/logger"
)

func captureStdout(fn func()) string {
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	_ = r.Close()
	return buf.String()
}

func TestDetectEnv(t *testing.T) {
	t.Setenv("APP_ENV", "")
	if got := logger.DetectEnv(); got != logger.EnvDev {
		t.Fatalf("default should be dev, got %q", got)
	}

	t.Setenv("APP_ENV", "staging")
	if got := logger.DetectEnv(); got != logger.EnvStage {
		t.Fatalf("expected stage, got %q", got)
	}

	t.Setenv("APP_ENV", "production")
	if got := logger.DetectEnv(); got != logger.EnvProd {
		t.Fatalf("expected prod, got %q", got)
	}
}

func TestInit_DevStd_TextOutput(t *testing.T) {
	out := captureStdout(func() {
		logger.Init(logger.Config{
			Service: "relay-test",
			Version: "v0.0.1",
			Env:     logger.EnvDev,
			Backend: logger.BackendStd,
		})
		slog.Info("hello relay")
	})

	if strings.Contains(out, "{") {
		t.Fatalf("expected text output in dev/std, got JSON: %s", out)
	}
	if !strings.Contains(out, "hello relay") {
		t.Fatalf("message missing: %s", out)
	}
	if !strings.Contains(out, "service=relay-test") {
		t.Fatalf("service attr missing: %s", out)
	}
}

func TestInit_ZapBackend_JSONOutput(t *testing.T) {
	out := captureStdout(func() {
		logger.Init(logger.Config{
			Service: "relay-test",
			Env:     logger.EnvProd,
			Backend: logger.BackendZap,
		})
		slog.Info("hello relay")
	})

	if !strings.Contains(out, `"msg"`) && !strings.Contains(out, `"message"`) {
		t.Fatalf("expected JSON output from zap backend: %s", out)
	}
	if !strings.Contains(out, "hello relay") {
		t.Fatalf("message missing: %s", out)
	}
}

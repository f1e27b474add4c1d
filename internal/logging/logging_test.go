package logging

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"springworks/internal/config"
)

func TestInitWritesRotatingFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "sw.log")
	cfg := config.Default().Logger
	cfg.Mode = "production"
	cfg.FileEnable = true
	cfg.Filename = logFile

	flush, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	zap.S().Infow("job card located", "jobCardNumber", "SO-0001/1")
	flush()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log output in file")
	}
}

func TestInitConsoleOnly(t *testing.T) {
	flush, err := Init(config.Default().Logger)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer flush()
	if zap.S() == nil {
		t.Fatal("expected global sugared logger")
	}
}

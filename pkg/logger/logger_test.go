package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingBeforeInitIsSafe(t *testing.T) {
	orig := log
	t.Cleanup(func() { log = orig })
	log = zap.NewNop()

	Info(context.Background(), "no init yet")
}

func TestInitAndContextLogging(t *testing.T) {
	Init("development")
	if GetLogger() == nil {
		t.Fatal("expected logger initialized")
	}

	ctx := context.WithValue(context.Background(), "request_id", "req-1")
	l := WithContext(ctx)
	if l == nil {
		t.Fatal("expected contextual logger")
	}

	Info(ctx, "info")
	Debug(ctx, "debug")
	Warn(ctx, "warn")
	Error(ctx, "error")
	LogRequest(ctx, "GET", "/health", 200, 10*time.Millisecond, "127.0.0.1")
	Sync()
}

func TestWithContextNil(t *testing.T) {
	Init("development")
	//nolint:staticcheck
	if WithContext(nil) == nil {
		t.Fatal("expected base logger for nil context")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	orig := log
	t.Cleanup(func() { log = orig })
	log = zap.New(core)

	ctx := context.WithValue(context.Background(), RequestIDKey, "typed-req-id")
	ctx = context.WithValue(ctx, AccountIDKey, "acc-1")
	Info(ctx, "settled")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "typed-req-id" || fields["account_id"] != "acc-1" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestInit_ProductionAndWithContextWithoutFields(t *testing.T) {
	log = zap.NewNop()
	once = sync.Once{}

	Init("production")
	if GetLogger() == nil {
		t.Fatal("expected production logger initialized")
	}
	SetLevel(zapcore.WarnLevel)

	if WithContext(context.Background()) == nil {
		t.Fatal("expected logger without contextual fields")
	}
}

func TestInit_PanicWhenLoggerBuildFails(t *testing.T) {
	log = zap.NewNop()
	once = sync.Once{}
	origBuild := buildLogger
	t.Cleanup(func() {
		buildLogger = origBuild
		log = zap.NewNop()
		once = sync.Once{}
	})

	buildLogger = func(zap.Config) (*zap.Logger, error) {
		return nil, errors.New("build failed")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic when logger builder fails")
		}
	}()
	Init("production")
}

func TestSetLoggerIgnoresNil(t *testing.T) {
	orig := log
	t.Cleanup(func() { log = orig })

	replacement := zap.NewNop()
	SetLogger(replacement)
	SetLogger(nil)
	if GetLogger() != replacement {
		t.Fatal("expected replacement logger to stay installed")
	}
}

package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestInitCreatesLoggers(t *testing.T) {
	Init()

	if InfoLogger == nil || WarnLogger == nil || ErrorLogger == nil || DebugLogger == nil {
		t.Fatal("expected all loggers to be initialized")
	}
}

func TestInfofWritesPrefixedLine(t *testing.T) {
	Init()

	var buf bytes.Buffer
	InfoLogger = log.New(&buf, "INFO: ", log.Ldate|log.Ltime)

	Infof("sweep processed %d subscriptions", 3)

	out := buf.String()
	if !strings.HasPrefix(out, "INFO: ") {
		t.Errorf("expected INFO prefix, got %q", out)
	}
	if !strings.Contains(out, "sweep processed 3 subscriptions") {
		t.Errorf("expected formatted message, got %q", out)
	}
}

func TestErrorWritesToErrorLogger(t *testing.T) {
	Init()

	var buf bytes.Buffer
	ErrorLogger = log.New(&buf, "ERROR: ", 0)

	Error("boom")

	if got := buf.String(); !strings.Contains(got, "boom") {
		t.Errorf("expected message in output, got %q", got)
	}
}

package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestLogDuration(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer

	// Set up logger with our buffer
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	// Log a duration
	start := time.Now().Add(-5 * time.Second)
	LogDuration(start, "test-operation")

	// Check output
	output := buf.String()
	if !strings.Contains(output, "test-operation") {
		t.Errorf("output %q missing operation name", output)
	}
	if !strings.Contains(output, "duration") {
		t.Errorf("output %q missing duration field", output)
	}
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := LogOperationStart(logger, "bundle")
	done()

	output := buf.String()
	if !strings.Contains(output, "Operation started") {
		t.Errorf("output %q missing start message", output)
	}
	if !strings.Contains(output, "Operation completed") {
		t.Errorf("output %q missing completion message", output)
	}
}

func TestMust_NoError(t *testing.T) {
	// Should not exit when error is nil
	Must(nil, "this should not exit")
}

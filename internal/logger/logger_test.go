package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFromContext_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf).With().Str("event_id", "abc-123").Logger()

	ctx := WithContext(context.Background(), base)
	log := FromContext(ctx)
	log.Debug().Msg("decoded model response")

	out := buf.String()
	if !strings.Contains(out, "abc-123") {
		t.Errorf("context logger fields lost, got: %s", out)
	}
	if !strings.Contains(out, "decoded model response") {
		t.Errorf("message missing, got: %s", out)
	}
}

func TestFromContext_MissingLogger(t *testing.T) {
	// A bare context still yields a usable logger.
	log := FromContext(context.Background())
	log.Debug().Msg("no-op")
}

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/atiendebot/atiendebot/internal/ctxutil"
)

func TestNewWithWriter(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		logDebug  bool
		wantLevel string
	}{
		{
			name:      "debug level emits debug records",
			level:     "debug",
			logDebug:  true,
			wantLevel: "debug",
		},
		{
			name:      "info level drops debug records",
			level:     "info",
			logDebug:  false,
			wantLevel: "info",
		},
		{
			name:      "warn maps to warning",
			level:     "warn",
			wantLevel: "warning",
		},
		{
			name:      "invalid level defaults to info",
			level:     "invalid",
			wantLevel: "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(tt.level, &buf)
			if log == nil {
				t.Fatal("NewWithWriter() returned nil")
			}

			buf.Reset()
			log.Debug("debug message")
			gotDebug := buf.Len() > 0
			if gotDebug != tt.logDebug {
				t.Errorf("debug record emitted = %v, want %v", gotDebug, tt.logDebug)
			}

			buf.Reset()
			switch tt.wantLevel {
			case "debug":
				log.Debug("probe")
			case "warning":
				log.Warn("probe")
			default:
				log.Info("probe")
			}

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to parse JSON log: %v", err)
			}
			if level, _ := entry["level"].(string); level != tt.wantLevel {
				t.Errorf("level = %q, want %q", level, tt.wantLevel)
			}
			if _, ok := entry["timestamp"]; !ok {
				t.Error("missing timestamp key")
			}
			if msg, _ := entry["message"].(string); msg != "probe" {
				t.Errorf("message = %q, want %q", msg, "probe")
			}
		})
	}
}

func TestLogger_WithModule(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("pipeline").Info("test message")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if module, ok := logEntry["module"].(string); !ok || module != "pipeline" {
		t.Errorf("WithModule() module = %v, want %q", logEntry["module"], "pipeline")
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithFields(map[string]any{
		"intent": "price",
		"lang":   "es",
	}).Info("classified")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if logEntry["intent"] != "price" {
		t.Errorf("intent = %v, want %q", logEntry["intent"], "price")
	}
	if logEntry["lang"] != "es" {
		t.Errorf("lang = %v, want %q", logEntry["lang"], "es")
	}
}

func TestContextHandler_ExtractsTracingValues(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	ctx := ctxutil.WithSenderID(context.Background(), "whatsapp:+5215512345678")
	ctx = ctxutil.WithChannelID(ctx, "whatsapp:+14155238886")
	ctx = ctxutil.WithRequestID(ctx, "req-42")
	ctx = ctxutil.WithMessageID(ctx, "SM9f8e7d")

	log.InfoContext(ctx, "processing message")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	want := map[string]string{
		"sender_id":  "whatsapp:+5215512345678",
		"channel_id": "whatsapp:+14155238886",
		"request_id": "req-42",
		"message_id": "SM9f8e7d",
	}
	for key, expected := range want {
		if got, _ := logEntry[key].(string); got != expected {
			t.Errorf("%s = %q, want %q", key, got, expected)
		}
	}
}

func TestContextHandler_NoValuesNoAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.InfoContext(context.Background(), "bare message")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	for _, key := range []string{"sender_id", "channel_id", "request_id", "message_id"} {
		if _, ok := logEntry[key]; ok {
			t.Errorf("unexpected %s attribute on bare context", key)
		}
	}
}

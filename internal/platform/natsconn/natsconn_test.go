package natsconn

import (
	"testing"
	"time"
)

func TestEnvInt(t *testing.T) {
	if v := envInt("LYRICS_TEST_UNSET", 5); v != 5 {
		t.Fatalf("expected fallback 5, got %d", v)
	}
	t.Setenv("LYRICS_TEST_RECONNECTS", "9")
	if v := envInt("LYRICS_TEST_RECONNECTS", 5); v != 9 {
		t.Fatalf("expected 9, got %d", v)
	}
	t.Setenv("LYRICS_TEST_RECONNECTS", "-1")
	if v := envInt("LYRICS_TEST_RECONNECTS", 5); v != 5 {
		t.Fatalf("negative values fall back, expected 5, got %d", v)
	}
}

func TestEnvDuration(t *testing.T) {
	if v := envDuration("LYRICS_TEST_UNSET", 2*time.Second); v != 2*time.Second {
		t.Fatalf("expected fallback 2s, got %s", v)
	}
	t.Setenv("LYRICS_TEST_WAIT", "750ms")
	if v := envDuration("LYRICS_TEST_WAIT", 2*time.Second); v != 750*time.Millisecond {
		t.Fatalf("expected 750ms, got %s", v)
	}
	t.Setenv("LYRICS_TEST_WAIT", "soon")
	if v := envDuration("LYRICS_TEST_WAIT", 2*time.Second); v != 2*time.Second {
		t.Fatalf("unparseable values fall back, expected 2s, got %s", v)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	// The lyrics service treats this error as "analytics disabled".
	_, err := Connect(Options{
		URL:           "nats://127.0.0.1:19822",
		MaxReconnects: 0,
		ReconnectWait: 10 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error for unreachable NATS server")
	}
}

package logging

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "chatty"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewDefaults(t *testing.T) {
	logger, err := New(Config{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer logger.Close()
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected JSON formatter, got %T", logger.Formatter)
	}
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "api.log")
	logger, err := New(Config{Level: "debug", Format: "text", File: path})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer logger.Close()
	if len(logger.closers) != 1 {
		t.Fatalf("expected file closer, got %d", len(logger.closers))
	}
}

func TestLogstashHookForwardsEntries(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	received := make(chan map[string]any, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, err := bufio.NewReader(conn).ReadBytes('\n')
		if err != nil {
			return
		}
		var payload map[string]any
		if json.Unmarshal(line, &payload) == nil {
			received <- payload
		}
	}()

	hook, err := NewLogstashHook(ln.Addr().String())
	if err != nil {
		t.Fatalf("new hook: %v", err)
	}
	defer hook.Close()

	logger := logrus.New()
	logger.AddHook(hook)
	logger.WithField("kind", "destination").Info("purge sweep finished")

	select {
	case payload := <-received:
		if payload["msg"] != "purge sweep finished" || payload["kind"] != "destination" {
			t.Fatalf("unexpected payload: %v", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("logstash did not receive entry")
	}
}

func TestLogstashHookCoolsDownAfterDialFailure(t *testing.T) {
	dials := 0
	hook, err := NewLogstashHook("127.0.0.1:1", WithRetryInterval(time.Hour))
	if err != nil {
		t.Fatalf("new hook: %v", err)
	}
	hook.dial = func(network, addr string, timeout time.Duration) (net.Conn, error) {
		dials++
		return nil, &net.OpError{Op: "dial", Err: net.UnknownNetworkError("down")}
	}

	entry := logrus.NewEntry(logrus.New())
	entry.Message = "first"
	if err := hook.Fire(entry); err != nil {
		t.Fatalf("fire should not fail: %v", err)
	}
	entry.Message = "second"
	_ = hook.Fire(entry)
	if dials != 1 {
		t.Fatalf("expected one dial during cooldown, got %d", dials)
	}
}

func TestNewLogstashHookRequiresAddress(t *testing.T) {
	if _, err := NewLogstashHook("  "); err == nil {
		t.Fatal("expected error for empty address")
	}
}

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestSlack_OK(t *testing.T) {
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(200)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if s == nil {
		t.Fatal("expected slack client")
	}
	if err := s.Send(context.Background(), "Title", "Hello"); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if got["text"] != "*Title*\nHello" {
		t.Fatalf("payload not as expected: %q", got["text"])
	}
	if got["username"] != "maintwindow" {
		t.Fatalf("username not as expected: %q", got["username"])
	}
}

func TestSlack_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	err := NewSlack(ts.URL).Send(context.Background(), "X", "Y")
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestSlack_Disabled(t *testing.T) {
	if NewSlack("") != nil {
		t.Fatalf("empty webhook should disable slack")
	}
	var s *Slack
	if err := s.Send(context.Background(), "X", "Y"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("want ErrDisabled, got %v", err)
	}
}

type recordingNotifier struct {
	titles []string
	err    error
}

func (r *recordingNotifier) Send(_ context.Context, title, _ string) error {
	r.titles = append(r.titles, title)
	return r.err
}

func TestMulti_SendsToAllAndJoinsErrors(t *testing.T) {
	a := &recordingNotifier{err: errors.New("a failed")}
	b := &recordingNotifier{}
	c := &recordingNotifier{err: errors.New("c failed")}

	err := Multi{a, nil, b, c}.Send(context.Background(), "T", "x")
	if len(a.titles) != 1 || len(b.titles) != 1 || len(c.titles) != 1 {
		t.Fatalf("every notifier should be called")
	}
	if err == nil || !strings.Contains(err.Error(), "a failed") || !strings.Contains(err.Error(), "c failed") {
		t.Fatalf("want joined errors, got %v", err)
	}
}

func TestNew_LogOnlyWithoutWebhook(t *testing.T) {
	n := New(zap.NewNop(), "")
	m, ok := n.(Multi)
	if !ok || len(m) != 1 {
		t.Fatalf("want log-only Multi, got %#v", n)
	}
	if err := n.Send(context.Background(), "T", "x"); err != nil {
		t.Fatalf("log notifier should not fail: %v", err)
	}
}

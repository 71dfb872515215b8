package component

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/marketweb/logger"
)

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }

func (m *mockComponent) Start(context.Context) error {
	*m.events = append(*m.events, "start:"+m.name)
	return m.startErr
}

func (m *mockComponent) Stop(context.Context) error {
	*m.events = append(*m.events, "stop:"+m.name)
	return m.stopErr
}

func (m *mockComponent) Health(context.Context) Health { return m.health }

func newMock(name string, events *[]string) *mockComponent {
	return &mockComponent{name: name, events: events, health: Health{Name: name, Status: StatusHealthy}}
}

func TestRegisterDuplicate(t *testing.T) {
	var events []string
	r := NewRegistry(logger.Nop())
	if err := r.Register(newMock("redis", &events)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(newMock("redis", &events)); err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if r.Get("redis") == nil || r.Get("missing") != nil {
		t.Error("unexpected Get result")
	}
}

func TestStartStopOrder(t *testing.T) {
	var events []string
	r := NewRegistry(logger.Nop())
	for _, n := range []string{"telemetry", "redis", "server"} {
		_ = r.Register(newMock(n, &events))
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := "start:telemetry,start:redis,start:server,stop:server,stop:redis,stop:telemetry"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestStartFailureStopsOnlyStarted(t *testing.T) {
	var events []string
	r := NewRegistry(logger.Nop())
	_ = r.Register(newMock("a", &events))
	bad := newMock("b", &events)
	bad.startErr = errors.New("boom")
	_ = r.Register(bad)
	_ = r.Register(newMock("c", &events))

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "start b") {
		t.Fatalf("expected start error for b, got %v", err)
	}
	_ = r.StopAll(context.Background())

	want := "start:a,start:b,stop:a"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	var events []string
	r := NewRegistry(logger.Nop())
	a := newMock("a", &events)
	a.stopErr = errors.New("a failed")
	b := newMock("b", &events)
	b.stopErr = errors.New("b failed")
	_ = r.Register(a)
	_ = r.Register(b)
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, a.stopErr) || !errors.Is(err, b.stopErr) {
		t.Errorf("expected both stop errors, got %v", err)
	}
}

func TestHealthAllAndOverall(t *testing.T) {
	var events []string
	r := NewRegistry(logger.Nop())
	ok := newMock("server", &events)
	slow := newMock("redis", &events)
	slow.health.Status = StatusDegraded
	_ = r.Register(ok)
	_ = r.Register(slow)

	reports := r.HealthAll(context.Background())
	if len(reports) != 2 || reports[0].Name != "server" {
		t.Fatalf("unexpected reports %+v", reports)
	}
	if Overall(reports) != StatusDegraded {
		t.Errorf("expected degraded, got %s", Overall(reports))
	}

	reports = append(reports, Health{Name: "x", Status: StatusUnhealthy})
	if Overall(reports) != StatusUnhealthy {
		t.Error("unhealthy should win")
	}
	if Overall(nil) != StatusHealthy {
		t.Error("no reports is healthy")
	}
}

package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("load")
	time.Sleep(time.Millisecond)
	timer.End(idx, "funcs=2")

	report := timer.Report()
	if len(report.Phases) != 1 {
		t.Fatalf("phases: %d", len(report.Phases))
	}
	p := report.Phases[0]
	if p.Name != "load" || p.Note != "funcs=2" {
		t.Fatalf("phase: %+v", p)
	}
	if p.DurationMS <= 0 || report.TotalMS < p.DurationMS {
		t.Fatalf("durations: phase=%.2f total=%.2f", p.DurationMS, report.TotalMS)
	}
}

func TestTimerEmptyReport(t *testing.T) {
	report := NewTimer().Report()
	if report.TotalMS != 0 || len(report.Phases) != 0 {
		t.Fatalf("empty timer report: %+v", report)
	}
}

func TestTimerEndIgnoresBadIndex(t *testing.T) {
	timer := NewTimer()
	timer.End(-1, "")
	timer.End(5, "")
	if len(timer.Report().Phases) != 0 {
		t.Fatalf("bad indices created phases")
	}
}

func TestTimerSummary(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("verify")
	timer.End(idx, "")

	out := timer.Summary()
	if !strings.Contains(out, "verify") || !strings.Contains(out, "total") {
		t.Fatalf("summary:\n%s", out)
	}
}

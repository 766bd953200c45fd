package bot

import (
	"fmt"
	"testing"

	"github.com/jholhewres/floppa/pkg/floppa/channels"
)

type fakeStatsSource struct {
	calls int
	err   error
}

func (f *fakeStatsSource) Totals() (int64, int64, error) {
	f.calls++
	return 3, 42, f.err
}

func TestStatsJobRun(t *testing.T) {
	src := &fakeStatsSource{}
	mgr := channels.NewManager(nil)
	if err := mgr.Register(newFakeChannel()); err != nil {
		t.Fatalf("register: %v", err)
	}

	job := NewStatsJob(src, mgr, nil)
	job.Run()

	if src.calls != 1 {
		t.Errorf("expected one Totals call, got %d", src.calls)
	}
}

func TestStatsJobRunSwallowsErrors(t *testing.T) {
	src := &fakeStatsSource{err: fmt.Errorf("database is locked")}
	job := NewStatsJob(src, channels.NewManager(nil), nil)

	// Must not panic or propagate.
	job.Run()
}

func TestStatsJobSchedule(t *testing.T) {
	job := NewStatsJob(&fakeStatsSource{}, channels.NewManager(nil), nil)

	if err := job.Start("@hourly"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	job.Stop()

	if err := job.Start("not a cron expr"); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAddJobRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := New("Not/AZone", quietLogger()); err == nil {
		t.Fatal("expected invalid timezone error")
	}

	s, err := New("", quietLogger())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	noop := func(context.Context) error { return nil }
	if err := s.AddJob("migrate", "not a schedule", time.Minute, noop); err == nil {
		t.Fatal("expected invalid schedule error")
	}
	if err := s.AddJob("migrate", "@every 1h", time.Minute, noop); err != nil {
		t.Fatalf("add job: %v", err)
	}
	if err := s.AddJob("migrate", "@every 2h", time.Minute, noop); err == nil {
		t.Fatal("expected duplicate job error")
	}

	jobs := s.ListJobs()
	if len(jobs) != 1 || jobs[0].Name != "migrate" {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
	s.RemoveJob("migrate")
	if len(s.ListJobs()) != 0 {
		t.Fatal("expected job to be removed")
	}
}

func TestScheduledJobRunsAndRecoversFromFailure(t *testing.T) {
	t.Parallel()

	s, err := New("UTC", quietLogger())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	var runs atomic.Int32
	done := make(chan struct{}, 4)
	err = s.AddJob("migrate", "@every 1s", 500*time.Millisecond, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected job context to carry a deadline")
		}
		n := runs.Add(1)
		done <- struct{}{}
		if n == 1 {
			return errors.New("first run fails")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("add job: %v", err)
	}

	s.Start()
	defer s.Stop()

	timeout := time.After(5 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-timeout:
			t.Fatalf("job ran %d times before timeout", runs.Load())
		}
	}
}

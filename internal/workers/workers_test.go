package workers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSubmitRejectsSecondTask(t *testing.T) {
	w := NewWorker(context.Background())
	release := make(chan struct{})

	first, err := w.Submit(func(ctx context.Context) error {
		<-release
		return nil
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !w.Busy() {
		t.Error("worker should be busy")
	}
	if _, err := w.Submit(func(ctx context.Context) error { return nil }); !errors.Is(err, ErrBusy) {
		t.Errorf("second submit: got %v, want ErrBusy", err)
	}

	close(release)
	if err := first.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if w.Busy() {
		t.Error("worker still busy after task returned")
	}
	again, err := w.Submit(func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("submit after completion: %v", err)
	}
	_ = again.Wait()
}

func TestCancelPropagates(t *testing.T) {
	w := NewWorker(context.Background())
	task, err := w.Submit(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err != nil {
		t.Fatal(err)
	}
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not stop after cancel")
	}
	if err := task.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestParentContextCancelsTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(ctx)
	task, err := w.Submit(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := task.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v", err)
	}
}

func TestPanicBecomesError(t *testing.T) {
	w := NewWorker(context.Background())
	task, err := w.Submit(func(ctx context.Context) error {
		panic("boom")
	})
	if err != nil {
		t.Fatal(err)
	}
	err = task.Wait()
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("got %v", err)
	}
	if w.Busy() {
		t.Error("worker still busy after panic")
	}
}

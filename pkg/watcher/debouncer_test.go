package watcher

import (
	"context"
	"testing"
	"time"
)

func TestDebouncerBatchesEvents(t *testing.T) {
	input := make(chan ChangeEvent)
	d := NewDebouncer(input, 50*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	input <- ChangeEvent{Type: ChangeTypeSource, Paths: []string{"a.ts"}}
	input <- ChangeEvent{Type: ChangeTypeSource, Paths: []string{"b.ts"}}

	select {
	case event := <-d.Output():
		if event.Type != ChangeTypeSource {
			t.Errorf("Type = %d, want source", event.Type)
		}
		if len(event.Paths) != 2 {
			t.Errorf("Expected batched paths [a.ts b.ts], got %v", event.Paths)
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for debounced event")
	}
}

func TestDebouncerConfigFlushesBeforeSource(t *testing.T) {
	input := make(chan ChangeEvent)
	d := NewDebouncer(input, 50*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	input <- ChangeEvent{Type: ChangeTypeSource, Paths: []string{"a.ts"}}
	input <- ChangeEvent{Type: ChangeTypeRuleConfig, Paths: []string{"feature-scan.toml"}}

	first := <-d.Output()
	second := <-d.Output()
	if first.Type != ChangeTypeRuleConfig || second.Type != ChangeTypeSource {
		t.Errorf("Expected config then source, got %d then %d", first.Type, second.Type)
	}
}

func TestDebouncerFlushesOnClose(t *testing.T) {
	input := make(chan ChangeEvent)
	d := NewDebouncer(input, time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	input <- ChangeEvent{Type: ChangeTypeSource, Paths: []string{"a.ts"}}
	close(input)

	select {
	case event, ok := <-d.Output():
		if !ok {
			t.Fatal("Output closed before pending events flushed")
		}
		if len(event.Paths) != 1 || event.Paths[0] != "a.ts" {
			t.Errorf("Flushed event wrong: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for final flush")
	}
}

func TestAnalyzeChanges(t *testing.T) {
	src := AnalyzeChanges(ChangeEvent{Type: ChangeTypeSource, Paths: []string{"a.ts"}})
	if src.NeedRuleReload || src.Reason == "" {
		t.Errorf("Source change analysis wrong: %+v", src)
	}

	cfg := AnalyzeChanges(ChangeEvent{Type: ChangeTypeRuleConfig, Paths: []string{"feature-scan.toml"}})
	if !cfg.NeedRuleReload {
		t.Errorf("Config change should require rule reload: %+v", cfg)
	}
}

package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goforj/singleton"
)

func TestRunConstructsOnce(t *testing.T) {
	for _, variant := range []singleton.Variant{singleton.VariantOnce, singleton.VariantChecked} {
		t.Run(string(variant), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			rep, err := run(runOptions{Variant: variant, Goroutines: 100}, zapObserver{logger: zap.New(core)})
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if rep.Distinct != 1 || rep.Constructions != 1 {
				t.Fatalf("unexpected report: %+v", rep)
			}
			if got := logs.FilterMessage("instance created").Len(); got != 1 {
				t.Fatalf("expected one creation log, got %d", got)
			}
			if got := logs.FilterMessage("instance requested").Len(); got != 100 {
				t.Fatalf("expected 100 request logs, got %d", got)
			}
		})
	}
}

func TestRunPropagatesStickyFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rep, err := run(runOptions{Variant: singleton.VariantChecked, Goroutines: 20, Fail: true}, zapObserver{logger: zap.New(core)})
	if !errors.Is(err, errInjected) || !errors.Is(err, singleton.ErrInitialization) {
		t.Fatalf("expected injected initialization failure, got %v", err)
	}
	if rep.Constructions != 1 {
		t.Fatalf("expected one construction attempt, got %d", rep.Constructions)
	}
	if got := logs.FilterMessage("construction failed").Len(); got != 1 {
		t.Fatalf("expected one failure log, got %d", got)
	}
}

func TestRunOptionsValidate(t *testing.T) {
	if err := (runOptions{Variant: "lazy", Goroutines: 1}).validate(); err == nil {
		t.Fatalf("expected unknown variant to be rejected")
	}
	if err := (runOptions{Variant: singleton.VariantOnce}).validate(); err == nil {
		t.Fatalf("expected zero goroutines to be rejected")
	}
}

func TestRootCmdPrintsReport(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--variant", "checked", "-n", "8"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "variant=checked goroutines=8 distinct=1 constructions=1") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestObserversFanOut(t *testing.T) {
	var a, b int
	obs := observers{
		singleton.ObserverFunc(func(singleton.Op, string, error, time.Duration, singleton.Variant) { a++ }),
		nil,
		singleton.ObserverFunc(func(singleton.Op, string, error, time.Duration, singleton.Variant) { b++ }),
	}
	obs.OnSingletonOp(singleton.OpGet, "x", nil, 0, singleton.VariantOnce)
	if a != 1 || b != 1 {
		t.Fatalf("expected both observers called, got a=%d b=%d", a, b)
	}
}

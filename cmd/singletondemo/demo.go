package main

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goforj/singleton"
)

const demoName = "demo resource"

var errInjected = errors.New("injected constructor failure")

type runOptions struct {
	Variant    singleton.Variant
	Goroutines int
	Fail       bool
}

func (o runOptions) validate() error {
	switch o.Variant {
	case singleton.VariantOnce, singleton.VariantChecked:
	default:
		return fmt.Errorf("unknown variant %q", o.Variant)
	}
	if o.Goroutines < 1 {
		return fmt.Errorf("goroutines must be positive, got %d", o.Goroutines)
	}
	return nil
}

type report struct {
	Distinct      int
	Constructions int32
}

type resource struct {
	id      int32
	created time.Time
	ready   bool
}

// run builds a fresh holder and releases o.Goroutines goroutines at it at once.
func run(o runOptions, obs singleton.Observer) (report, error) {
	var constructions atomic.Int32
	holder := singleton.New(o.Variant, func() (*resource, error) {
		id := constructions.Add(1)
		if o.Fail {
			return nil, errInjected
		}
		r := &resource{id: id, created: time.Now()}
		time.Sleep(time.Millisecond)
		r.ready = true
		return r, nil
	}, singleton.WithName(demoName), singleton.WithObserver(obs))

	start := make(chan struct{})
	seen := make([]*resource, o.Goroutines)
	var g errgroup.Group
	for i := 0; i < o.Goroutines; i++ {
		i := i
		g.Go(func() error {
			<-start
			r, err := holder.Get()
			if err != nil {
				return err
			}
			if !r.ready {
				return fmt.Errorf("goroutine %d observed an unfinished resource", i)
			}
			seen[i] = r
			return nil
		})
	}
	close(start)
	if err := g.Wait(); err != nil {
		return report{Constructions: constructions.Load()}, err
	}

	distinct := make(map[*resource]struct{}, 1)
	for _, r := range seen {
		distinct[r] = struct{}{}
	}
	return report{Distinct: len(distinct), Constructions: constructions.Load()}, nil
}

type observers []singleton.Observer

func (obs observers) OnSingletonOp(op singleton.Op, name string, err error, dur time.Duration, variant singleton.Variant) {
	for _, o := range obs {
		if o != nil {
			o.OnSingletonOp(op, name, err, dur, variant)
		}
	}
}

type zapObserver struct {
	logger *zap.Logger
}

func (z zapObserver) OnSingletonOp(op singleton.Op, name string, err error, dur time.Duration, variant singleton.Variant) {
	fields := []zap.Field{
		zap.String("name", name),
		zap.String("variant", string(variant)),
		zap.Duration("duration", dur),
	}
	switch {
	case op == singleton.OpConstruct && err != nil:
		z.logger.Error("construction failed", append(fields, zap.Error(err))...)
	case op == singleton.OpConstruct:
		z.logger.Info("instance created", fields...)
	default:
		z.logger.Debug("instance requested", fields...)
	}
}

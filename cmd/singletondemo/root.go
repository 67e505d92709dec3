package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goforj/singleton"
	"github.com/goforj/singleton/shared"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "singletondemo",
		Short:         "Race goroutines against a lazily constructed shared value",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          rootExec,
	}
	cmd.Flags().String("variant", string(singleton.VariantOnce), "holder algorithm: once or checked")
	cmd.Flags().IntP("goroutines", "n", 100, "number of goroutines racing the first access")
	cmd.Flags().Bool("fail", false, "make the constructor fail")
	cmd.Flags().Bool("debug", false, "log every accessor call")
	return cmd
}

func rootExec(cmd *cobra.Command, _ []string) error {
	variant, err := cmd.Flags().GetString("variant")
	if err != nil {
		return err
	}
	goroutines, err := cmd.Flags().GetInt("goroutines")
	if err != nil {
		return err
	}
	fail, err := cmd.Flags().GetBool("fail")
	if err != nil {
		return err
	}
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return err
	}

	opts := runOptions{
		Variant:    singleton.Variant(variant),
		Goroutines: goroutines,
		Fail:       fail,
	}
	if err := opts.validate(); err != nil {
		return err
	}

	logger, err := newLogger(debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ledger, err := shared.DefaultLedger()
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}

	rep, err := run(opts, observers{zapObserver{logger: logger}, ledger})
	if err != nil {
		return err
	}

	logger.Info("race finished",
		zap.String("variant", variant),
		zap.Int("goroutines", goroutines),
		zap.Int("distinct_instances", rep.Distinct),
		zap.Int32("constructions", rep.Constructions),
		zap.Int64("observed_gets", ledger.Gets(demoName)),
	)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "variant=%s goroutines=%d distinct=%d constructions=%d\n",
		variant, goroutines, rep.Distinct, rep.Constructions)
	return err
}

func newLogger(debug bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       debug,
		DisableStacktrace: true,
		Encoding:          "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:     "timestamp",
			MessageKey:  "message",
			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,
			EncodeTime:  zapcore.RFC3339TimeEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("error building logger: %w", err)
	}
	return logger, nil
}

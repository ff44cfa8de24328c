// SPDX-License-Identifier: EPL-2.0

// Command audmatrix runs the mic-priority mixer over a multichannel
// recording, writing the mix to a WAV file and drawing the hub dashboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ik5/audmatrix"
	"github.com/ik5/audmatrix/config"
	"github.com/ik5/audmatrix/device"
	"github.com/ik5/audmatrix/formats/wav"
	"github.com/ik5/audmatrix/mixer"
	"github.com/ik5/audmatrix/telemetry"
	"github.com/sirupsen/logrus"
)

var errNoInput = errors.New("no input: set device.input in the config or pass -in")

type cliOptions struct {
	configPath  string
	input       string
	output      string
	realtime    bool
	dashboard   bool
	logLevel    string
	thresholdDB float64

	// names of the flags given on the command line
	set map[string]bool
}

func parseFlags(args []string, errOut io.Writer) (*cliOptions, error) {
	opts := &cliOptions{set: make(map[string]bool)}

	fs := flag.NewFlagSet("audmatrix", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&opts.configPath, "config", "", "YAML profile (default: built-in desk + wireless roster)")
	fs.StringVar(&opts.input, "in", "", "input recording (wav, aiff, mp3, ogg)")
	fs.StringVar(&opts.output, "out", "", "output WAV file (default: discard the mix)")
	fs.BoolVar(&opts.realtime, "realtime", false, "pace blocks at the device rate")
	fs.BoolVar(&opts.dashboard, "dashboard", false, "draw the dashboard on stdout")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.Float64Var(&opts.thresholdDB, "threshold-db", mixer.DefaultThresholdDB, "desk priority threshold in dB")
	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: audmatrix [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})

	return opts, nil
}

// setupLogging sends logs to w so that stdout stays free for the dashboard.
func setupLogging(level string, w io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	logrus.SetOutput(w)
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return nil
}

// loadProfile reads the config file, if any, and applies the flags given on
// the command line on top of it.
func loadProfile(opts *cliOptions) (*config.File, error) {
	file := config.Default()
	if opts.configPath != "" {
		var err error
		if file, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	if opts.set["in"] {
		file.Device.Input = opts.input
	}
	if opts.set["out"] {
		file.Device.Output = opts.output
	}
	if opts.set["realtime"] {
		file.Device.Realtime = opts.realtime
	}
	if opts.set["dashboard"] {
		file.Dashboard.Enabled = opts.dashboard
	}
	if opts.set["threshold-db"] {
		file.Engine.ThresholdDB = opts.thresholdDB
	}

	if err := file.Validate(); err != nil {
		return nil, err
	}
	if file.Device.Input == "" {
		return nil, errNoInput
	}

	return file, nil
}

func openSink(file *config.File) (device.Sink, error) {
	if file.Device.Output == "" {
		return device.Discard, nil
	}

	return wav.Create(file.Device.Output, file.Engine.SampleRate, file.Device.OutputChannels)
}

func run(ctx context.Context, file *config.File, stdout io.Writer) error {
	cfg, err := file.EngineConfig()
	if err != nil {
		return err
	}

	engine, err := mixer.New(cfg)
	if err != nil {
		return err
	}

	src, err := audmatrix.Open(file.Device.Input)
	if err != nil {
		return err
	}

	sink, err := openSink(file)
	if err != nil {
		_ = src.Close()
		return err
	}

	stream, err := device.Open(src, sink, device.Options{
		SampleRate:     cfg.SampleRate,
		BlockLength:    cfg.BlockLength,
		InputChannels:  cfg.InputChannelCount(),
		OutputChannels: file.Device.OutputChannels,
		Realtime:       file.Device.Realtime,
	})
	if err != nil {
		return errors.Join(err, src.Close(), sink.Close())
	}

	dashDone := make(chan error, 1)
	dashCtx, stopDash := context.WithCancel(ctx)
	if file.Dashboard.Enabled {
		if !isTerminal(stdout) {
			logrus.WithFields(logrus.Fields{
				"function": "main.run",
			}).Warn("stdout is not a terminal, dashboard output will contain escape codes")
		}
		dash := telemetry.New(stdout, engine)
		go func() {
			dashDone <- dash.Run(dashCtx, file.Dashboard.Interval)
		}()
	} else {
		dashDone <- nil
	}

	stats, runErr := stream.Run(ctx, engine.Process)
	stopDash()
	dashErr := <-dashDone
	closeErr := stream.Close()

	logrus.WithFields(logrus.Fields{
		"function":     "main.run",
		"blocks":       stats.Blocks,
		"frames":       stats.Frames,
		"overruns":     stats.Overruns,
		"max_callback": stats.MaxCallback,
		"fader":        engine.Level(),
	}).Info("Matrix engine offline")

	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	return errors.Join(runErr, dashErr, closeErr)
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "audmatrix: %v\n", err)
		os.Exit(2)
	}

	if err := setupLogging(opts.logLevel, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "audmatrix: %v\n", err)
		os.Exit(2)
	}

	file, err := loadProfile(opts)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Error("Configuration error")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, file, os.Stdout); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Error("Matrix engine failed")
		stop()
		os.Exit(1)
	}
}

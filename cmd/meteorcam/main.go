// Command meteorcam runs one acquisition session against a V4L2 capture
// device: open, negotiate format, stream, detect, and hand finished clips
// off to the analysis sink, until interrupted.
//
// Grounded on lkumar3-iitr-Sensor-Logger/cmd/main.go
// (_examples/lkumar3-iitr-Sensor-Logger/cmd/main.go)'s flag parsing,
// signal-driven context cancellation, and stats-ticker shape.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"meteorcam/analysis"
	"meteorcam/capture"
	"meteorcam/config"
	"meteorcam/decode"
	"meteorcam/detect"
	"meteorcam/frame"
	"meteorcam/logging"
	"meteorcam/metrics"
	"meteorcam/pipeline"
	"meteorcam/statemachine"
	"meteorcam/v4l2"
)

func main() {
	cfgPath := flag.String("config", "", "path to meteorcam.yaml (defaults built in if omitted)")
	devicePath := flag.String("device", "", "override device_path from config")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "meteorcam: load config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *devicePath != "" {
		cfg.DevicePath = *devicePath
	}

	log := logging.New(cfg.LogLevel, cfg.LogPath)
	defer log.Close()

	log.Info().
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Int("pid", os.Getpid()).
		Msg("meteorcam starting")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("meteorcam exited with error")
	}
}

func run(cfg config.Config, log *logging.Logger) error {
	reg := metrics.New()
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: reg.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		defer srv.Close()
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics endpoint listening")
	}

	fourcc, err := cfg.FourCC()
	if err != nil {
		return err
	}

	source, err := capture.Open(cfg.DevicePath,
		capture.WithPixFormat(v4l2.PixFormat{
			Width:       uint32(cfg.Width),
			Height:      uint32(cfg.Height),
			PixelFormat: fourcc,
		}),
		capture.WithBufferCount(uint32(cfg.BufferCount)),
	)
	if err != nil {
		return fmt.Errorf("open device %s: %w", cfg.DevicePath, err)
	}
	defer source.Close()

	log.Info().
		Str("device", cfg.DevicePath).
		Str("format", v4l2.PixelFormatNames[source.PixFormat().PixelFormat]).
		Uint32("width", source.PixFormat().Width).
		Uint32("height", source.PixFormat().Height).
		Msg("negotiated capture format")

	if err := source.Start(); err != nil {
		return fmt.Errorf("start streaming: %w", err)
	}
	defer source.Stop()

	decoder, err := decode.New(source.PixFormat().PixelFormat, int(cfg.Width), int(cfg.Height))
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}

	bus := frame.NewFrameBus()
	defer bus.Close()
	bus.OnMailboxDrop(func() { reg.MailboxDrops.Inc() })

	sink := analysis.NewWorkerPoolSink(cfg.AnalysisWorkers, func(clip *statemachine.Clip) string {
		return clip.ID
	})
	defer sink.Close()

	machine := statemachine.New(cfg.DetectionHead, cfg.DetectionTail)
	machine.SetRun()

	p := pipeline.New(
		source,
		decoder,
		frame.NewRateMonitor(),
		detect.NewEngine(byte(cfg.PixelDifferenceThreshold), cfg.NChangedPixelsForTrigger),
		machine,
		bus,
		sink,
		log,
		reg,
		pipeline.Config{Width: cfg.Width, Height: cfg.Height, Headless: cfg.Headless},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	statsTicker := time.NewTicker(5 * time.Second)
	defer statsTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-statsTicker.C:
				log.Info().
					Int("subscribers", bus.NumSubscribers()).
					Int("analysis_queue_depth", sink.QueueDepth()).
					Msg("pipeline stats")
			}
		}
	}()

	return p.Run(ctx)
}

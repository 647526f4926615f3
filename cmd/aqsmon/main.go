// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// aqsmon monitors a Pmod AQS (CCS811) air quality sensor, drives an
// indicator with the classified level and exposes Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/IbeVdV/PmodAQS/airquality"
	"github.com/IbeVdV/PmodAQS/ccs811"
	"github.com/IbeVdV/PmodAQS/indicator"
	"github.com/IbeVdV/PmodAQS/internal/config"
)

// CLI args
var (
	configPath = flag.String("config", "", "path to the YAML configuration file")
	listenAddr = flag.String("listen-address", "", "override the configured metrics listen address")
)

// metrics to expose to Prometheus
var (
	gaugeECO2 = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "air_eco2_ppm",
		Help: "Equivalent CO2 concentration (units: ppm)",
	})
	gaugeLevel = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "air_quality_level",
		Help: "Air quality classification (0=good, 1=warning, 2=alert)",
	})
	counterReadFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "air_read_failures_total",
		Help: "Number of sensor read transactions that failed",
	})
)

func init() {
	prometheus.MustRegister(gaugeECO2)
	prometheus.MustRegister(gaugeLevel)
	prometheus.MustRegister(counterReadFailures)

	// Add Go module build info.
	prometheus.MustRegister(prometheus.NewBuildInfoCollector())

	// logging
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *listenAddr != "" {
		cfg.ListenAddress = *listenAddr
	}

	if _, err := host.Init(); err != nil {
		log.Fatalf("failed to initialize periph: %s", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		log.Fatalf("failed to open I2C bus: %s", err)
	}
	defer bus.Close()

	intPin := gpioreg.ByName(cfg.IntPin)
	if intPin == nil {
		log.Fatalf("gpio pin %q not found", cfg.IntPin)
	}

	ind := buildIndicator(cfg)
	defer func() { _ = ind.Halt() }()

	dev := bootWithRetry(bus, cfg)
	report := dev.BootReport()
	log.Infof("sensor up: hw id 0x%02x, boot status [%s], error id %s, mode %s",
		report.HardwareID, report.Status, report.ErrorID, report.ModeEcho)

	if cfg.Thresholds.Enable {
		if err := dev.SetThresholds(cfg.Thresholds.Low, cfg.Thresholds.High); err != nil {
			log.Fatalf("failed to program thresholds: %s", err)
		}
	}

	go func() {
		// Expose the registered metrics via HTTP.
		http.Handle("/metrics", promhttp.HandlerFor(
			prometheus.DefaultGatherer,
			promhttp.HandlerOpts{
				EnableOpenMetrics: true,
			},
		))
		log.Panic(http.ListenAndServe(cfg.ListenAddress, nil))
	}()

	ready := airquality.NewSignal()
	src := airquality.NewPinSource(intPin, ready)
	mon := airquality.NewMonitor(dev, src, ready, &airquality.Opts{
		Sink: ind,
		Logf: log.Warnf,
		OnReading: func(ppm uint16, level airquality.Level) {
			gaugeECO2.Set(float64(ppm))
			gaugeLevel.Set(float64(level))
			log.Debugf("eCO2 %dppm classified %s", ppm, level)
		},
		OnReadError: func(err error) {
			counterReadFailures.Inc()
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("monitoring %s on pin %s, metrics on %s", dev, intPin, cfg.ListenAddress)
	if err := mon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("monitor stopped: %s", err)
	}
	_ = src.Halt()
	log.Info("shutting down")
}

// bootWithRetry reruns the whole boot handshake until it succeeds. The
// driver never retries on its own; persistent failure is fatal here.
func bootWithRetry(bus i2c.Bus, cfg *config.Config) *ccs811.Dev {
	backoff := time.Duration(cfg.Boot.BackoffMs) * time.Millisecond
	var lastErr error
	for attempt := 1; attempt <= cfg.Boot.Retries; attempt++ {
		dev, err := ccs811.NewI2C(bus, &ccs811.Opts{Mode: cfg.Mode()})
		if err == nil {
			return dev
		}
		lastErr = err
		log.Errorf("boot attempt %d/%d failed: %s", attempt, cfg.Boot.Retries, err)
		time.Sleep(backoff)
	}
	log.Fatalf("could not boot sensor, giving up: %s", lastErr)
	return nil
}

func buildIndicator(cfg *config.Config) indicator.Indicator {
	switch cfg.Indicator.Type {
	case "leds":
		warn := gpioreg.ByName(cfg.Indicator.WarnPin)
		alert := gpioreg.ByName(cfg.Indicator.AlertPin)
		if warn == nil || alert == nil {
			log.Fatalf("led pins %q/%q not found", cfg.Indicator.WarnPin, cfg.Indicator.AlertPin)
		}
		return &indicator.LEDs{Warn: warn, Alert: alert}
	default:
		return indicator.NewScreen(nil)
	}
}

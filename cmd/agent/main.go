package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/api"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/config"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/orderapi"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/printer"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/receipt"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/service"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	st, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		logger.Fatal("Failed to open local store", zap.Error(err))
	}

	// A policy saved through provisioning wins over the environment default.
	policyName := cfg.Printer.DirectionPolicy
	if saved, ok := st.DirectionPolicy(); ok && saved != "" {
		policyName = saved
	}
	formatter := receipt.NewFormatter(cfg.Printer.Width, receipt.NewShaper(receipt.ParsePolicy(policyName)), logger)

	session := printer.NewSession(newTransport(cfg), st, st, formatter, cfg.Printer.FeedLines, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session.Resume(ctx)

	hub := api.NewHub(logger)

	var device *service.Device
	agent := service.NewAgent(st, session, hub, cfg.Poll.Interval, func() {
		if device != nil {
			device.Logout()
		}
	}, logger)

	factory := func(baseURL, token string) service.AuthClient {
		return orderapi.NewClient(baseURL, token, logger)
	}
	device = service.NewDevice(st, agent, factory, logger)

	// Boot-time credentials take precedence; otherwise restore the persisted
	// session, if any.
	if cfg.Remote.APIURL != "" && cfg.Remote.Token != "" {
		if _, err := device.Login(ctx, cfg.Remote.APIURL, cfg.Remote.Token); err != nil {
			logger.Warn("Boot-time login failed, falling back to persisted credentials", zap.Error(err))
			device.Resume(ctx)
		}
	} else {
		device.Resume(ctx)
	}

	go agent.Run(ctx)

	router := api.NewRouter(cfg, api.Deps{
		Agent:     agent,
		Device:    device,
		Session:   session,
		Printer:   session,
		Formatter: formatter,
		Store:     st,
		Hub:       hub,
	}, logger)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		logger.Info("Control API listening", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Control API failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Control API shutdown was not clean", zap.Error(err))
	}
	// Close, not Disconnect: the paired address must survive the restart.
	session.Close()
}

func newLogger(cfg *config.Config) *zap.Logger {
	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		level = parsed
	}

	var zc zap.Config
	if cfg.Environment == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		os.Stderr.WriteString("Failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	return logger
}

func newTransport(cfg *config.Config) printer.Transport {
	if cfg.Printer.Transport == "file" {
		return &printer.FileTransport{}
	}
	return &printer.TCPTransport{DialTimeout: cfg.Printer.DialTimeout}
}

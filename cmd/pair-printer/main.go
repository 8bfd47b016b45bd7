package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/config"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/printer"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/receipt"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/store"
)

// Pairs a printer from the command line: with an address argument it connects
// directly, without one it scans and lists what it finds. The paired address
// is persisted, so the agent auto-resumes to it on its next start.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	st, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open local store: %v\n", err)
		os.Exit(1)
	}

	var transport printer.Transport
	if cfg.Printer.Transport == "file" {
		transport = &printer.FileTransport{}
	} else {
		transport = &printer.TCPTransport{DialTimeout: cfg.Printer.DialTimeout}
	}

	formatter := receipt.NewFormatter(cfg.Printer.Width, receipt.NewShaper(receipt.ParsePolicy(cfg.Printer.DirectionPolicy)), logger)
	session := printer.NewSession(transport, st, st, formatter, cfg.Printer.FeedLines, logger)

	ctx := context.Background()

	if len(os.Args) < 2 {
		fmt.Println("Scanning for printers...")
		devices, err := session.Scan(ctx, 10*time.Second)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
			fmt.Println("Usage: pair-printer <address>")
			os.Exit(1)
		}
		for _, d := range devices {
			fmt.Printf("  %s\t%s\n", d.Address, d.Name)
		}
		fmt.Println("Run again with an address to pair.")
		return
	}

	address := os.Args[1]
	if err := session.Connect(ctx, address); err != nil {
		fmt.Fprintf(os.Stderr, "Connect failed: %v\n", err)
		os.Exit(1)
	}
	session.Close()
	fmt.Printf("Paired printer %s\n", address)
}

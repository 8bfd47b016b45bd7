package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/config"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/orderapi"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/printer"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/receipt"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/store"
)

// Fetches one order by id and prints it to the paired printer. Useful for
// re-printing a receipt or for checking a freshly paired printer end to end.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: print-order <order-id> [--preview]")
		os.Exit(1)
	}
	orderID, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid order id %q\n", os.Args[1])
		os.Exit(1)
	}
	preview := len(os.Args) > 2 && os.Args[2] == "--preview"

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

	apiURL, token := cfg.Remote.APIURL, cfg.Remote.Token
	if apiURL == "" {
		apiURL, _ = st.Get(store.KeyAPIURL)
	}
	if token == "" {
		token, _ = st.Get(store.KeyDeviceToken)
	}
	if apiURL == "" || token == "" {
		fmt.Fprintln(os.Stderr, "Device is not logged in and no POS_API_URL/POS_TOKEN set")
		os.Exit(1)
	}

	ctx := context.Background()
	client := orderapi.NewClient(apiURL, token, logger)
	orders, err := client.ListOrders(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch orders: %v\n", err)
		os.Exit(1)
	}

	for _, order := range orders {
		if order.ID != orderID {
			continue
		}

		policyName := cfg.Printer.DirectionPolicy
		if saved, ok := st.DirectionPolicy(); ok && saved != "" {
			policyName = saved
		}
		formatter := receipt.NewFormatter(cfg.Printer.Width, receipt.NewShaper(receipt.ParsePolicy(policyName)), logger)

		if preview {
			for _, line := range formatter.Format(order, st.LoadBranding()) {
				fmt.Println(line)
			}
			return
		}

		var transport printer.Transport
		if cfg.Printer.Transport == "file" {
			transport = &printer.FileTransport{}
		} else {
			transport = &printer.TCPTransport{DialTimeout: cfg.Printer.DialTimeout}
		}
		session := printer.NewSession(transport, st, st, formatter, cfg.Printer.FeedLines, logger)
		session.Resume(ctx)
		if !session.IsConnected() {
			fmt.Fprintln(os.Stderr, "No printer paired; run pair-printer first")
			os.Exit(1)
		}
		defer session.Close()

		jobID, err := session.PrintReceipt(ctx, order)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Print failed: %v\n", err)
			os.Exit(1)
		}
		st.MarkPrinted(order.ID)
		fmt.Printf("Printed order %d (job %s)\n", orderID, jobID)
		return
	}

	fmt.Fprintf(os.Stderr, "Order %d not found in the current order list\n", orderID)
	os.Exit(1)
}

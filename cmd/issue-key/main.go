package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/config"
	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/store"
)

// Provisions the control API key: generates one (or takes it from the
// command line), stores its bcrypt hash, and prints the key once. A running
// agent picks the new key up on the next request.
func main() {
	var apiKey string
	if len(os.Args) > 1 {
		apiKey = os.Args[1]
	} else {
		buf := make([]byte, 24)
		if _, err := rand.Read(buf); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate key: %v\n", err)
			os.Exit(1)
		}
		apiKey = hex.EncodeToString(buf)
	}

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

	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash API key: %v\n", err)
		os.Exit(1)
	}
	if err := st.SetControlKeyHash(string(hash)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to store API key hash: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Control API key provisioned. Store it now, it is not shown again:")
	fmt.Println(apiKey)
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"token-swap/cmd"
)

func main() {
	// .env is optional; only a malformed file is fatal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/billbook/cmd/billctl/internal/command"
	"github.com/MrJamesThe3rd/billbook/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	root := command.NewRootCmd(command.Options{DefaultTaxRate: cfg.Billing.DefaultTaxRate})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

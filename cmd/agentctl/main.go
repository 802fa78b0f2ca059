package main

import (
	"os"

	"haruhi-agent-be/internal/config"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	var root = &cobra.Command{
		Use:           "agentctl",
		Short:         "Manage the Haruhi agent profile and tail its events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(registerCMD(), updateCMD(), eventsCMD())
	if err := root.Execute(); err != nil {
		color.Red("ERROR: %v", err)
		os.Exit(1)
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// circloToken fails early so no request is sent without credentials.
func circloToken() (string, error) {
	token := config.CircloToken()
	if token == "" {
		return "", errMissingToken
	}
	return token, nil
}

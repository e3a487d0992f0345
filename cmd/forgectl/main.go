package main

import (
	"fmt"
	"os"

	"codeberg.org/algopatterns/forge/internal/config"
	"codeberg.org/algopatterns/forge/internal/logger"
)

func usage() {
	fmt.Println("Usage: forgectl <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  submit  - generate code for a requirement and publish it")
	fmt.Println("  token   - mint an API client token (needs API_JWT_SECRET)")
	fmt.Println("\nSubmit options:")
	fmt.Println("  -server <url>          - forge server base URL")
	fmt.Println("  -requirement <text>    - natural-language requirement")
	fmt.Println("  -repo <owner/name>     - target repository")
	fmt.Println("  -token <jwt>           - API token (default $FORGE_API_TOKEN)")
	fmt.Println("\nToken options:")
	fmt.Println("  -subject <id>          - client identifier")
	fmt.Println("  -ttl <duration>        - token lifetime")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "submit":
		flags := config.ParseSubmitFlags(os.Args[2:])

		outcome, err := Submit(flags)
		if err != nil {
			logger.Fatal("submit failed", "error", err)
		}

		fmt.Println(outcome.Pretty())

		if outcome.Status != "success" {
			os.Exit(2)
		}

	case "token":
		flags := config.ParseTokenFlags(os.Args[2:])

		token, err := MintToken(flags)
		if err != nil {
			logger.Fatal("failed to mint token", "error", err)
		}

		fmt.Println(token)

	default:
		usage()
		os.Exit(1)
	}
}

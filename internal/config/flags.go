package config

import (
	"flag"
	"os"
	"time"
)

// parses CLI flags for the submit subcommand
func ParseSubmitFlags(args []string) SubmitFlags {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	server := fs.String("server", "http://localhost:8080", "forge server base URL")
	requirement := fs.String("requirement", "", "natural-language requirement")
	repo := fs.String("repo", "", "target repository as owner/name")
	token := fs.String("token", os.Getenv("FORGE_API_TOKEN"), "bearer token for the API")
	timeout := fs.Duration("timeout", 3*time.Minute, "overall request timeout")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return SubmitFlags{
		Server:      *server,
		Requirement: *requirement,
		Repository:  *repo,
		Token:       *token,
		Timeout:     *timeout,
	}
}

// parses CLI flags for the token subcommand
func ParseTokenFlags(args []string) TokenFlags {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	subject := fs.String("subject", "", "client identifier placed in the sub claim")
	ttl := fs.Duration("ttl", 30*24*time.Hour, "token lifetime")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return TokenFlags{Subject: *subject, TTL: *ttl}
}

package generation

import (
	"strings"
)

// a fenced block found in a model response
type fence struct {
	lang string
	code string
}

// extracts the code from a response. A single fenced block is unwrapped and
// with several blocks the longest one wins. Unfenced text is returned as-is;
// fences holding nothing yield "".
func extractCode(response string) (code, lang string) {
	response = strings.TrimSpace(response)
	if response == "" {
		return "", ""
	}

	blocks := findFences(response)
	if len(blocks) == 0 {
		return response, ""
	}

	best := blocks[0]
	for _, b := range blocks[1:] {
		if len(b.code) > len(best.code) {
			best = b
		}
	}

	if best.code == "" {
		return "", ""
	}

	return best.code, best.lang
}

// finds complete ``` fence pairs; an unterminated trailing fence is ignored
func findFences(response string) []fence {
	var blocks []fence

	rest := response
	for {
		start := strings.Index(rest, "```")
		if start == -1 {
			return blocks
		}

		// find end of opening fence line (language identifier)
		afterStart := start + 3
		newline := strings.Index(rest[afterStart:], "\n")
		if newline == -1 {
			return blocks
		}

		lang := strings.TrimSpace(rest[afterStart : afterStart+newline])
		codeStart := afterStart + newline + 1

		end := strings.Index(rest[codeStart:], "```")
		if end == -1 {
			return blocks
		}

		code := strings.TrimSpace(rest[codeStart : codeStart+end])
		blocks = append(blocks, fence{lang: lang, code: code})

		rest = rest[codeStart+end+3:]
	}
}

var langAliases = map[string]string{
	"py":      "python",
	"python3": "python",
	"golang":  "go",
	"js":      "javascript",
	"node":    "javascript",
	"ts":      "typescript",
	"rs":      "rust",
	"rb":      "ruby",
	"sh":      "shell",
	"bash":    "shell",
	"zsh":     "shell",
	"kt":      "kotlin",
	"c++":     "cpp",
	"cs":      "csharp",
	"c#":      "csharp",
}

// normalizes a fence tag, or guesses from content when there is none
func languageHint(tag, code string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if alias, ok := langAliases[tag]; ok {
		return alias
	}

	if tag != "" {
		return tag
	}

	return guessLanguage(code)
}

func guessLanguage(code string) string {
	trimmed := strings.TrimSpace(code)

	switch {
	case strings.HasPrefix(trimmed, "#!/bin/bash"), strings.HasPrefix(trimmed, "#!/bin/sh"),
		strings.HasPrefix(trimmed, "#!/usr/bin/env bash"):
		return "shell"
	case strings.HasPrefix(trimmed, "#!/usr/bin/env python"):
		return "python"
	case strings.HasPrefix(trimmed, "package ") && strings.Contains(trimmed, "func "):
		return "go"
	case strings.Contains(trimmed, "fn main()"):
		return "rust"
	case strings.Contains(trimmed, "public static void main"):
		return "java"
	case strings.HasPrefix(trimmed, "def ") || strings.Contains(trimmed, "\ndef ") ||
		strings.HasPrefix(trimmed, "import ") && strings.Contains(trimmed, ":\n"):
		return "python"
	case strings.Contains(trimmed, "function ") || strings.Contains(trimmed, "=> {") ||
		strings.Contains(trimmed, "module.exports"):
		return "javascript"
	default:
		return ""
	}
}

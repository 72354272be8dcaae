// Package langdetect guesses the programming language of code listings
// that do not declare one, using go-enry.
package langdetect

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// candidates are the languages the classifier chooses between. The list
// favors languages common in papers and theses.
//
//nolint:gochecknoglobals // Read-only classifier input.
var candidates = []string{
	"Python", "C", "C++", "Java", "Go", "Rust", "R", "MATLAB", "Julia",
	"Haskell", "Shell", "JavaScript", "SQL", "Fortran", "Scala", "OCaml",
}

// marker is a substring that identifies a language on sight.
type marker struct {
	lang   string
	prefix bool
	text   string
}

// markers are checked in order before the classifier runs.
//
//nolint:gochecknoglobals // Read-only lookup table.
var markers = []marker{
	{lang: "go", prefix: true, text: "package "},
	{lang: "c++", text: "#include <iostream>"},
	{lang: "c++", text: "std::"},
	{lang: "c", text: "#include <"},
	{lang: "python", text: "__name__"},
	{lang: "python", text: "import numpy"},
	{lang: "rust", text: "fn main()"},
	{lang: "rust", text: "println!"},
	{lang: "julia", text: "using LinearAlgebra"},
	{lang: "haskell", text: "module Main where"},
	{lang: "r", text: "library("},
	{lang: "java", text: "public static void main"},
	{lang: "sql", prefix: true, text: "SELECT "},
}

// Detect returns the most likely language of a listing, or "" when no
// guess is confident enough.
func Detect(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}

	if lang, safe := enry.GetLanguageByShebang([]byte(trimmed)); safe {
		return Normalize(lang)
	}

	for _, m := range markers {
		if m.prefix && strings.HasPrefix(trimmed, m.text) {
			return m.lang
		}
		if !m.prefix && strings.Contains(trimmed, m.text) {
			return m.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier([]byte(trimmed), candidates); safe && lang != "" {
		return Normalize(lang)
	}

	return ""
}

// ForFile returns the language of an included source file by its
// extension, or "" when unknown or ambiguous.
func ForFile(name string) string {
	lang, safe := enry.GetLanguageByExtension(filepath.Base(name))
	if !safe || lang == "" {
		return ""
	}
	return Normalize(lang)
}

// Normalize maps enry and listings package spellings to lower-case names.
func Normalize(lang string) string {
	lang = strings.TrimSpace(lang)
	switch strings.ToLower(lang) {
	case "shell", "sh":
		return "bash"
	case "[sharp]c", "c#":
		return "csharp"
	case "matlab", "octave":
		return "matlab"
	default:
		return strings.ToLower(lang)
	}
}

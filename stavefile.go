//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary  = "bin/texoutline"
	mainPkg = "./cmd/texoutline"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"i":   Install,
	"fmt": Lint.Fmt,
	"fz":  Bench.Fuzz,
	"s":   Bench.Sample,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/texoutline when sources changed since the last build.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building texoutline...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, mainPkg)
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build and coverage artifacts.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install runs go install with version info.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Default runs the test suite with race detection and coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails")
}

// Verbose runs the test suite printing every test.
func (Test) Verbose() error {
	return gotestsum("standard-verbose")
}

// Cover writes an HTML coverage report to coverage.html.
func (Test) Cover() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when any file needs formatting.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Gate runs the checks CI requires before merge.
func (CI) Gate() error {
	st.SerialDeps(
		Lint.FmtCheck,
		CI.Vet,
		CI.Lint,
		Build,
		Test.Default,
		CI.ModTidy,
		CI.Cross,
	)
	fmt.Println("CI gate passed")
	return nil
}

// Vet runs go vet.
func (CI) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Lint runs golangci-lint without modifying files.
func (CI) Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	files := []string{"go.mod", "go.sum"}
	before, err := readAll(files)
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := readAll(files)
	if err != nil {
		return err
	}
	for i, name := range files {
		if !bytes.Equal(before[i], after[i]) {
			return errors.New(name + " changed after go mod tidy")
		}
	}
	return nil
}

// Cross builds the binary for every release platform.
func (CI) Cross() error {
	platforms := []string{
		"linux/amd64", "linux/arm64",
		"darwin/amd64", "darwin/arm64",
		"windows/amd64", "windows/arm64",
		"freebsd/amd64",
	}
	for _, platform := range platforms {
		goos, goarch, _ := strings.Cut(platform, "/")
		fmt.Println("  building", platform)
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, mainPkg); err != nil {
			return fmt.Errorf("build %s: %w", platform, err)
		}
	}
	return nil
}

// Default runs every benchmark.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Fuzz runs the lexer round-trip fuzzer for STAVE_FUZZ_TIME (default 30s).
func (Bench) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("STAVE_FUZZ_TIME"), "30s")
	fmt.Printf("Fuzzing lexer for %s...\n", fuzzTime)
	return sh.RunV("go", "test", "-run=^$", "-fuzz=FuzzScan", "-fuzztime="+fuzzTime, "./pkg/lexer")
}

// Sample prints the outline of the testdata corpus with a fresh binary.
func (Bench) Sample() error {
	st.Deps(Build)
	return sh.RunV(binary, "outline", "--lines", "--entries", "testdata")
}

func gotestsum(format string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum", "-f", format, "--",
		"-race", "-p", procs, "-parallel", procs,
		"./...", "-coverprofile=coverage.out", "-covermode=atomic",
	)
}

func readAll(paths []string) ([][]byte, error) {
	contents := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		contents = append(contents, data)
	}
	return contents, nil
}

// gitOutput returns trimmed git output, or "" on failure.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}

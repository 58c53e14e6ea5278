//go:build mage

// Package main contains Mage build targets for enex2md developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "enex2md"
	cmdPkg  = "./cmd/enex2md"
)

// Build compiles the CLI binary into bin/, stamping the version from the
// VERSION environment variable when set.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	args := []string{"build", "-o", out}
	if v := os.Getenv("VERSION"); v != "" {
		args = append(args, "-ldflags", "-X main.version="+v)
	}
	args = append(args, cmdPkg)
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Install builds the binary and copies it into $GOBIN (or $GOPATH/bin).
func Install() error {
	mg.Deps(Build)
	return sh.RunV("go", "install", cmdPkg)
}

// Stats prints production and test line counts per package and the share
// of test code, so packages lacking tests stand out.
func Stats() error {
	pkgs, err := packageLines(".")
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(pkgs))
	for dir := range pkgs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var prod, test int
	fmt.Printf("%-24s %8s %8s\n", "package", "code", "tests")
	for _, dir := range dirs {
		c := pkgs[dir]
		prod += c.prod
		test += c.test
		marker := ""
		if c.test == 0 && dir != "magefiles" {
			marker = "  (no tests)"
		}
		fmt.Printf("%-24s %8d %8d%s\n", dir, c.prod, c.test, marker)
	}
	fmt.Printf("%-24s %8d %8d\n", "total", prod, test)
	if prod > 0 {
		fmt.Printf("test/code ratio: %.2f\n", float64(test)/float64(prod))
	}
	return nil
}

type lineCount struct {
	prod, test int
}

// packageLines counts non-blank Go lines under root, keyed by package
// directory.
func packageLines(root string) (map[string]lineCount, error) {
	counts := make(map[string]lineCount)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return skipDir(path, d)
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}

		n, err := nonBlankLines(path)
		if err != nil {
			return err
		}
		dir := filepath.ToSlash(filepath.Dir(path))
		c := counts[dir]
		if strings.HasSuffix(path, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		counts[dir] = c
		return nil
	})
	return counts, err
}

func nonBlankLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n, nil
}

// skipDir skips directories the go tool ignores, such as _examples and .git.
func skipDir(path string, d fs.DirEntry) error {
	name := d.Name()
	if path != "." && (name[0] == '_' || name[0] == '.' || name == "testdata" || name == binDir) {
		return filepath.SkipDir
	}
	return nil
}

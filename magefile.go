//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "thienthu"

var Default = Build

// Build compiles the thienthu binary.
func Build() error {
	return sh.RunV("go", "build", "-o", binary, "./cmd/thienthu")
}

// Test runs all unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install copies the binary to ~/go/bin.
func Install() error {
	mg.Deps(Build)

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dest := filepath.Join(home, "go", "bin", binary)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	if err := sh.Copy(dest, binary); err != nil {
		return fmt.Errorf("failed to install %s: %w", dest, err)
	}
	return os.Chmod(dest, 0755)
}

// Clean removes the built binary.
func Clean() error {
	return sh.Rm(binary)
}

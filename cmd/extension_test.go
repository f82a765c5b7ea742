package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtensionMechanism(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
	tempDir := t.TempDir()

	helloSource := fmt.Sprintf(`
package main

import (
	"fmt"
	"os"
)

func main() {
	for _, name := range []string{%q, %q, %q} {
		fmt.Printf("%%s=%%s\n", name, os.Getenv(name))
	}
	fmt.Printf("args=%%v\n", os.Args[1:])
	os.Exit(3)
}
`, EnvServer, EnvLogLevel, EnvOutputDir)

	helloPath := filepath.Join(tempDir, "oneshot-hello")
	srcFile := helloPath + ".go"
	if err := os.WriteFile(srcFile, []byte(helloSource), 0644); err != nil {
		t.Fatalf("Failed to write oneshot-hello source: %v", err)
	}
	build := exec.Command("go", "build", "-o", helloPath, srcFile)
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile oneshot-hello: %v", err)
	}

	binary := filepath.Join(tempDir, "oneshot")
	build = exec.Command("go", "build", "-o", binary, "../oneshot")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile oneshot: %v", err)
	}

	run := exec.Command(binary, "-log.level", "debug", "hello", "world")
	run.Dir = tempDir
	run.Env = []string{
		"PATH=" + tempDir + string(os.PathListSeparator) + os.Getenv("PATH"),
		EnvServer + "=http://converter.test:8080",
	}
	var stdout, stderr bytes.Buffer
	run.Stdout = &stdout
	run.Stderr = &stderr

	err := run.Run()
	var exitError *exec.ExitError
	if !errors.As(err, &exitError) || exitError.ExitCode() != 3 {
		t.Fatalf("oneshot hello should exit with the extension status 3, got %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	output := stdout.String()
	for _, want := range []string{
		EnvServer + "=http://converter.test:8080",
		EnvLogLevel + "=debug",
		EnvOutputDir + "=.",
		"args=[world]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, but got:\n%s", want, output)
		}
	}
}

func TestRunExtension_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	found, code := RunExtension("does-not-exist", nil)
	if found || code != 0 {
		t.Errorf("RunExtension() = (%v, %d), want (false, 0)", found, code)
	}
}

// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up a scratch vault,
// scripting prompts and capturing output.
package cmd

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/PolarWolf314/securevault/internal/configs"
)

const testPassphrase = "correct horse"

// setupTestEnvironment points the CLI at a fresh data directory and
// restores the global state when the test ends.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()

	ResetGlobalState()
	t.Cleanup(ResetGlobalState)

	home := t.TempDir()
	t.Setenv(configs.EnvHome, home)
	t.Setenv(configs.EnvCipher, "")
	t.Setenv("NO_COLOR", "1")

	// Never exit the test binary.
	SetDoctorExitFunc(func(int) {})
	return home
}

// scriptPassphrases answers hidden prompts with answers, in order.
func scriptPassphrases(t *testing.T, answers ...string) {
	t.Helper()
	SetPassphraseReader(func(prompt string) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("unexpected prompt: " + prompt)
		}
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	})
}

// scriptInput answers line prompts with lines, in order.
func scriptInput(lines ...string) {
	SetInput(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

// runCLI executes the root command with args and returns everything it printed.
func runCLI(args ...string) (string, error) {
	resetFlagState()
	RootCmd.SetArgs(args)
	return captureOutput(func() error {
		return RootCmd.Execute()
	})
}

// initializeVault runs init with the test passphrase.
func initializeVault(t *testing.T) {
	t.Helper()
	scriptPassphrases(t, testPassphrase, testPassphrase)
	output, err := runCLI("init")
	if err != nil {
		t.Fatalf("Failed to initialize vault: %v\nOutput: %s", err, output)
	}
}

// addCredential stores one credential through the add command.
func addCredential(t *testing.T, service, username, secret string) {
	t.Helper()
	scriptPassphrases(t, testPassphrase, secret)
	output, err := runCLI("add", service, username)
	if err != nil {
		t.Fatalf("Failed to add %s: %v\nOutput: %s", service, err, output)
	}
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	first := <-outputChan
	second := <-outputChan

	return first + second, err
}

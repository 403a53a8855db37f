package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/PolarWolf314/securevault/internal/configs"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/record"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/PolarWolf314/securevault/internal/utils"
	"github.com/PolarWolf314/securevault/internal/workflows"
	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// reportedError is returned once a command has shown its failure to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// fail prints err for the user and returns it marked as reported.
func fail(err error) error {
	fmt.Println(formatError(err))
	return &reportedError{err: err}
}

// failWith sets the spinner's final message instead of printing directly.
func failWith(s *spinner.Spinner, err error) error {
	s.FinalMSG = formatError(err)
	return &reportedError{err: err}
}

// formatError formats an error for display to the user. Technical detail
// goes to the operator log only.
func formatError(err error) string {
	var configErr *configs.FileError

	switch {
	case errors.As(err, &configErr):
		Logger.Detail("invalid configuration file", err)
		return ui.Error.Sprint("✗") + " The config file " + ui.Path.Sprint(configErr.Path) + " is invalid\n" +
			ui.Info.Sprint("→") + " Fix or remove it, details are in the operator log"

	case errors.Is(err, kerrors.ErrVaultNotInitialized):
		return ui.Error.Sprint("✗") + " The vault has not been initialized\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("securevault init") + " first"

	case errors.Is(err, kerrors.ErrVaultAlreadyInitialized):
		return ui.Error.Sprint("✗") + " The vault has already been initialized at " + ui.Path.Sprint(Settings.DataDir) + "\n" +
			ui.Info.Sprint("→") + " Use " + ui.Code.Sprint("securevault passwd") + " to change the master passphrase"

	case errors.Is(err, kerrors.ErrTooManyAttempts):
		return ui.Error.Sprint("✗") + " Too many failed attempts, giving up"

	case errors.Is(err, kerrors.ErrPassphraseMismatch):
		return ui.Error.Sprint("✗") + " Incorrect master passphrase"

	case errors.Is(err, kerrors.ErrPassphraseTooShort),
		errors.Is(err, kerrors.ErrInvalidInput),
		errors.Is(err, kerrors.ErrInvalidDateFormat),
		errors.Is(err, kerrors.ErrInvalidConfig),
		errors.Is(err, kerrors.ErrUnknownCipher):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, kerrors.ErrRecordNotFound):
		return ui.Error.Sprint("✗") + " No matching credential found"

	case errors.Is(err, kerrors.ErrNoRecords):
		return ui.Warning.Sprint("⚠") + " The vault is empty, nothing to export"

	case errors.Is(err, kerrors.ErrExportTargetIsVault):
		return ui.Error.Sprint("✗") + " Refusing to export over the vault file"

	case errors.Is(err, kerrors.ErrPassphraseConfirmation):
		return ui.Error.Sprint("✗") + " Passphrases do not match"

	default:
		return ui.Error.Sprint("✗") + " " + Logger.Shield(err)
	}
}

// readPassphrase reads hidden input. Tests replace it.
var readPassphrase = defaultReadPassphrase

// inputReader feeds line-oriented prompts. Tests replace it.
var inputReader = bufio.NewReader(os.Stdin)

func defaultReadPassphrase(prompt string) ([]byte, error) {
	if utils.IsTerminal() {
		return utils.ReadPassphrase(prompt)
	}
	return utils.ReadPassphraseFromTTY(prompt)
}

// SetPassphraseReader sets the hidden input function for testing purposes.
func SetPassphraseReader(f func(prompt string) ([]byte, error)) {
	readPassphrase = f
}

// SetInput sets the line input for testing purposes.
func SetInput(r io.Reader) {
	inputReader = bufio.NewReader(r)
}

func resetInputState() {
	readPassphrase = defaultReadPassphrase
	inputReader = bufio.NewReader(os.Stdin)
}

// readNewPassphrase prompts for a new passphrase twice.
func readNewPassphrase(prompt string) (string, error) {
	pass, err := utils.ReadNewPassphrase(readPassphrase, prompt)
	if err != nil {
		return "", err
	}
	return string(pass), nil
}

// readLine prints prompt and returns one trimmed line of input.
func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := inputReader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads a credential password from stdin when fromStdin is set,
// and from a hidden prompt otherwise.
func readSecret(fromStdin bool, prompt string) (string, error) {
	if fromStdin {
		return utils.ReadSecretFromStdin()
	}
	secret, err := readPassphrase(prompt)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// unlockSession asks for the master passphrase up to MaxAttempts times.
func unlockSession(ctx context.Context) (*workflows.Session, error) {
	for attempt := 1; attempt <= Settings.MaxAttempts; attempt++ {
		pass, err := readPassphrase("Master passphrase: ")
		if err != nil {
			return nil, err
		}

		session, err := unlockWith(ctx, string(pass))
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, kerrors.ErrPassphraseMismatch) {
			return nil, err
		}

		Logger.Debugf("Unlock attempt %d of %d rejected", attempt, Settings.MaxAttempts)
		if remaining := Settings.MaxAttempts - attempt; remaining > 0 {
			fmt.Printf("%s Incorrect master passphrase, %d attempt(s) remaining\n", ui.Error.Sprint("✗"), remaining)
		}
	}
	return nil, kerrors.ErrTooManyAttempts
}

// unlockWith opens the vault with a passphrase that was already read.
func unlockWith(ctx context.Context, passphrase string) (*workflows.Session, error) {
	session, err := workflows.Unlock(ctx, workflows.UnlockOptions{
		Settings:   Settings,
		Passphrase: passphrase,
		Logger:     Logger,
	})
	if err != nil {
		return nil, err
	}
	reportSkipped(session)
	return session, nil
}

// reportSkipped warns about log lines that could not be read.
func reportSkipped(session *workflows.Session) {
	skipped := session.Skipped()
	if len(skipped) == 0 {
		return
	}
	fmt.Printf("%s %d unreadable record(s) were skipped\n", ui.Warning.Sprint("⚠"), len(skipped))
	fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("securevault doctor --deep") + " for details")
}

// findRecord returns the first record with exactly this service and username.
func findRecord(session *workflows.Session, service, username string) (record.Record, error) {
	matches := session.Repository().Filter(func(r record.Record) bool {
		return r.Service == service && r.Username == username
	})
	if len(matches) == 0 {
		return record.Record{}, kerrors.ErrRecordNotFound
	}
	if len(matches) > 1 {
		Logger.Warnf("%d credentials match %s (%s), using the first", len(matches), service, username)
	}
	return matches[0], nil
}

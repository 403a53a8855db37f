package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/utils"
)

// Environment variables read by Resolve.
const (
	EnvHome   = "SECUREVAULT_HOME"
	EnvCipher = "SECUREVAULT_CIPHER"
)

// Default artifact names inside the data directory.
const (
	DefaultConfigFile  = "config.toml"
	DefaultVaultFile   = "vault.enc"
	DefaultKeyFile     = "vault.key"
	DefaultMasterFile  = "master.hash"
	DefaultAuditFile   = "audit.jsonl"
	DefaultOperatorLog = "securevault.log"

	DefaultMinPassphraseLength = 8
	DefaultMaxAttempts         = 5
	DefaultRevealDelay         = 5 * time.Second
)

// Settings is the effective configuration. All file fields are absolute
// after Resolve.
type Settings struct {
	DataDir    string
	ConfigFile string

	VaultFile       string
	KeyFile         string
	MasterFile      string
	AuditFile       string
	OperatorLogFile string

	// Cipher is a registry name; empty selects the default strategy.
	Cipher string

	MinPassphraseLength int
	MaxAttempts         int
	RevealDelay         time.Duration

	// Audit enables the change journal.
	Audit bool
	// Notify prints change notifications in the interactive shell.
	Notify bool
}

// Overrides carries command-line flags. Empty fields are ignored.
type Overrides struct {
	Home       string
	Cipher     string
	ConfigFile string
}

// DefaultDataDir returns $XDG_DATA_HOME/securevault or
// ~/.local/share/securevault.
func DefaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "securevault"), nil
}

// Defaults returns the built-in settings rooted at dataDir.
func Defaults(dataDir string) *Settings {
	s := &Settings{
		DataDir:             dataDir,
		ConfigFile:          DefaultConfigFile,
		VaultFile:           DefaultVaultFile,
		KeyFile:             DefaultKeyFile,
		MasterFile:          DefaultMasterFile,
		AuditFile:           DefaultAuditFile,
		OperatorLogFile:     DefaultOperatorLog,
		MinPassphraseLength: DefaultMinPassphraseLength,
		MaxAttempts:         DefaultMaxAttempts,
		RevealDelay:         DefaultRevealDelay,
		Audit:               true,
		Notify:              true,
	}
	s.absolutize()
	return s
}

// Resolve builds the effective settings from defaults, the config file,
// the environment and o, in that order of precedence.
func Resolve(o Overrides) (*Settings, error) {
	dataDir := o.Home
	if dataDir == "" {
		dataDir = os.Getenv(EnvHome)
	}
	if dataDir == "" {
		var err error
		if dataDir, err = DefaultDataDir(); err != nil {
			return nil, err
		}
	}

	dataDir, err := absolute(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}

	s := Defaults(dataDir)
	if o.ConfigFile != "" {
		if s.ConfigFile, err = absolute(o.ConfigFile); err != nil {
			return nil, fmt.Errorf("resolving config file: %w", err)
		}
	}

	fileConfig, _, err := LoadFileConfig(s.ConfigFile)
	if err != nil {
		return nil, &FileError{Path: s.ConfigFile, DataDir: dataDir, Err: err}
	}
	if err := fileConfig.apply(s); err != nil {
		return nil, &FileError{Path: s.ConfigFile, DataDir: dataDir, Err: err}
	}

	if cipherName := os.Getenv(EnvCipher); cipherName != "" {
		s.Cipher = cipherName
	}
	if o.Cipher != "" {
		s.Cipher = o.Cipher
	}

	s.absolutize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	switch {
	case s.MinPassphraseLength < 1:
		return fmt.Errorf("%w: min_passphrase_length must be at least 1", kerrors.ErrInvalidConfig)
	case s.MaxAttempts < 1:
		return fmt.Errorf("%w: max_attempts must be at least 1", kerrors.ErrInvalidConfig)
	case s.RevealDelay < 0:
		return fmt.Errorf("%w: reveal_delay must not be negative", kerrors.ErrInvalidConfig)
	}
	return nil
}

// Save writes s to its config file.
func Save(s *Settings) error {
	return SaveFileConfig(s.ConfigFile, FileConfigFrom(s))
}

// absolute expands a leading ~ and makes path absolute.
func absolute(path string) (string, error) {
	expanded, err := utils.ExpandHome(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

func (s *Settings) absolutize() {
	for _, p := range []*string{&s.ConfigFile, &s.VaultFile, &s.KeyFile, &s.MasterFile, &s.AuditFile, &s.OperatorLogFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(s.DataDir, *p)
		}
	}
}

// relative returns path relative to the data directory when it lies inside
// it, and path unchanged otherwise.
func (s *Settings) relative(path string) string {
	rel, err := filepath.Rel(s.DataDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

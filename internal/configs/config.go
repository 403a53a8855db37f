package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
)

// FileError reports a config file that could not be read or applied. The
// cause is technical detail for the operator log.
type FileError struct {
	Path    string
	DataDir string
	Err     error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%v: %s: %v", kerrors.ErrInvalidConfig, e.Path, e.Err)
}

func (e *FileError) Unwrap() []error {
	return []error{kerrors.ErrInvalidConfig, e.Err}
}

// FileConfig is the on-disk shape of config.toml. Zero values mean "not
// set" and leave the lower-precedence value in place.
type FileConfig struct {
	Vault    VaultSection    `toml:"vault" json:"vault"`
	Security SecuritySection `toml:"security" json:"security"`
	Logging  LoggingSection  `toml:"logging" json:"logging"`
}

type VaultSection struct {
	Cipher     string `toml:"cipher,omitempty" json:"cipher,omitempty"`
	VaultFile  string `toml:"vault_file,omitempty" json:"vault_file,omitempty"`
	KeyFile    string `toml:"key_file,omitempty" json:"key_file,omitempty"`
	MasterFile string `toml:"master_file,omitempty" json:"master_file,omitempty"`
}

type SecuritySection struct {
	MinPassphraseLength int    `toml:"min_passphrase_length,omitempty" json:"min_passphrase_length,omitempty"`
	MaxAttempts         int    `toml:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	RevealDelay         string `toml:"reveal_delay,omitempty" json:"reveal_delay,omitempty"`
}

type LoggingSection struct {
	Audit       *bool  `toml:"audit,omitempty" json:"audit,omitempty"`
	AuditFile   string `toml:"audit_file,omitempty" json:"audit_file,omitempty"`
	OperatorLog string `toml:"operator_log,omitempty" json:"operator_log,omitempty"`
	Notify      *bool  `toml:"notify,omitempty" json:"notify,omitempty"`
}

// LoadFileConfig reads path. A missing file yields an empty config.
func LoadFileConfig(path string) (*FileConfig, []string, error) {
	config := &FileConfig{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config, nil, nil
	}

	undecoded, err := LoadTOML(path, config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config file: %w", err)
	}

	return config, undecoded, nil
}

// SaveFileConfig writes config to path.
func SaveFileConfig(path string, config *FileConfig) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// apply overlays the values set in c onto s.
func (c *FileConfig) apply(s *Settings) error {
	if c.Vault.Cipher != "" {
		s.Cipher = c.Vault.Cipher
	}
	if c.Vault.VaultFile != "" {
		s.VaultFile = c.Vault.VaultFile
	}
	if c.Vault.KeyFile != "" {
		s.KeyFile = c.Vault.KeyFile
	}
	if c.Vault.MasterFile != "" {
		s.MasterFile = c.Vault.MasterFile
	}

	if c.Security.MinPassphraseLength != 0 {
		s.MinPassphraseLength = c.Security.MinPassphraseLength
	}
	if c.Security.MaxAttempts != 0 {
		s.MaxAttempts = c.Security.MaxAttempts
	}
	if c.Security.RevealDelay != "" {
		d, err := time.ParseDuration(c.Security.RevealDelay)
		if err != nil {
			return fmt.Errorf("security.reveal_delay: %w", err)
		}
		s.RevealDelay = d
	}

	if c.Logging.Audit != nil {
		s.Audit = *c.Logging.Audit
	}
	if c.Logging.AuditFile != "" {
		s.AuditFile = c.Logging.AuditFile
	}
	if c.Logging.OperatorLog != "" {
		s.OperatorLogFile = c.Logging.OperatorLog
	}
	if c.Logging.Notify != nil {
		s.Notify = *c.Logging.Notify
	}
	return nil
}

// FileConfigFrom returns the config file that reproduces s.
func FileConfigFrom(s *Settings) *FileConfig {
	audit, notify := s.Audit, s.Notify
	return &FileConfig{
		Vault: VaultSection{
			Cipher:     s.Cipher,
			VaultFile:  s.relative(s.VaultFile),
			KeyFile:    s.relative(s.KeyFile),
			MasterFile: s.relative(s.MasterFile),
		},
		Security: SecuritySection{
			MinPassphraseLength: s.MinPassphraseLength,
			MaxAttempts:         s.MaxAttempts,
			RevealDelay:         s.RevealDelay.String(),
		},
		Logging: LoggingSection{
			Audit:       &audit,
			AuditFile:   s.relative(s.AuditFile),
			OperatorLog: s.relative(s.OperatorLogFile),
			Notify:      &notify,
		},
	}
}

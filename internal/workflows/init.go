package workflows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/PolarWolf314/securevault/internal/audit"
	"github.com/PolarWolf314/securevault/internal/cipher"
	"github.com/PolarWolf314/securevault/internal/configs"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/gate"
	"github.com/PolarWolf314/securevault/internal/keys"
	logger "github.com/PolarWolf314/securevault/internal/logging"
	"github.com/PolarWolf314/securevault/internal/vault"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	Settings *configs.Settings

	// Passphrase is the new master passphrase.
	Passphrase string

	Logger logger.Logger
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// DataDir is where the vault artifacts live.
	DataDir string

	// Cipher is the strategy the vault was set up with.
	Cipher string

	// KeyCreated is false when an existing key artifact was kept.
	KeyCreated bool

	// KeyFingerprint identifies the key without revealing it.
	KeyFingerprint string

	// ConfigWritten is true when a config file was created.
	ConfigWritten bool
}

// Init provisions a new vault.
//
// It stores the passphrase digest, generates the record key (an existing
// key artifact is reused so that an existing log stays readable), creates
// an empty log and writes a config file if none exists.
//
// Returns ErrVaultAlreadyInitialized if a passphrase digest already exists.
// Returns ErrPassphraseTooShort if the passphrase is below the minimum.
// Returns ErrUnknownCipher if the configured cipher is not registered.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	s := opts.Settings
	log := opts.Logger

	g := gate.New(s.MasterFile, s.MinPassphraseLength)
	provisioned, err := g.Provisioned()
	if err != nil {
		return nil, fmt.Errorf("checking master passphrase: %w", err)
	}
	if provisioned {
		return nil, kerrors.ErrVaultAlreadyInitialized
	}

	// Reject an unknown cipher before anything is written.
	if _, err := cipher.New(s.Cipher, keys.Key{}); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.DataDir, 0700); err != nil {
		return nil, kerrors.StoreFault("create data directory", err)
	}

	log.Debugf("Deriving master passphrase digest")
	if err := g.SetPassphrase(opts.Passphrase); err != nil {
		return nil, fmt.Errorf("setting master passphrase: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			_ = os.Remove(s.MasterFile)
		}
	}()

	key, created, err := keys.LoadOrGenerate(s.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("preparing record key: %w", err)
	}
	if created {
		log.Infof("Generated a new record key at %s", s.KeyFile)
	} else {
		log.Warnf("Reusing existing record key at %s", s.KeyFile)
	}

	strategy, err := cipher.New(s.Cipher, key)
	if err != nil {
		return nil, err
	}

	if err := vault.New(s.VaultFile, strategy, vault.WithLogger(log)).Create(); err != nil {
		return nil, fmt.Errorf("creating vault file: %w", err)
	}

	configWritten := false
	if _, err := os.Stat(s.ConfigFile); errors.Is(err, fs.ErrNotExist) {
		if err := configs.Save(s); err != nil {
			return nil, fmt.Errorf("writing config file: %w", err)
		}
		configWritten = true
	}

	if s.Audit {
		(&audit.Journal{Path: s.AuditFile, Logger: log}).Log(audit.Entry{Operation: audit.OpInit})
	}

	cleanupNeeded = false

	return &InitResult{
		DataDir:        s.DataDir,
		Cipher:         strategy.Name(),
		KeyCreated:     created,
		KeyFingerprint: keys.Fingerprint(key),
		ConfigWritten:  configWritten,
	}, nil
}

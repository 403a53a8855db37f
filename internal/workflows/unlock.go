package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/securevault/internal/audit"
	"github.com/PolarWolf314/securevault/internal/cipher"
	"github.com/PolarWolf314/securevault/internal/configs"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/feed"
	"github.com/PolarWolf314/securevault/internal/gate"
	"github.com/PolarWolf314/securevault/internal/keys"
	logger "github.com/PolarWolf314/securevault/internal/logging"
	"github.com/PolarWolf314/securevault/internal/repository"
	"github.com/PolarWolf314/securevault/internal/vault"
)

// UnlockOptions configures the unlock workflow.
type UnlockOptions struct {
	Settings *configs.Settings

	// Passphrase is the master passphrase to verify.
	Passphrase string

	Logger logger.Logger
}

// Unlock verifies the master passphrase and opens the vault.
//
// It loads the record key, builds the configured cipher strategy, reads
// the log into a repository (every record lands in the default category)
// and subscribes the change journal when auditing is enabled. Unreadable
// log lines are skipped and reported by Session.Skipped.
//
// Returns ErrVaultNotInitialized if no passphrase has been provisioned.
// Returns ErrPassphraseMismatch if the passphrase is wrong.
// Returns ErrKeyMaterial faults if the key artifact is missing or corrupt.
func Unlock(ctx context.Context, opts UnlockOptions) (*Session, error) {
	s := opts.Settings
	log := opts.Logger

	g := gate.New(s.MasterFile, s.MinPassphraseLength)
	ok, err := g.Verify(opts.Passphrase)
	if errors.Is(err, kerrors.ErrGateNotProvisioned) {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrVaultNotInitialized, err)
	}
	if err != nil {
		return nil, fmt.Errorf("verifying master passphrase: %w", err)
	}
	if !ok {
		log.Detail("unlock rejected", kerrors.ErrPassphraseMismatch)
		return nil, kerrors.ErrPassphraseMismatch
	}

	key, err := keys.Load(s.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("loading record key: %w", err)
	}

	strategy, err := cipher.New(s.Cipher, key)
	if err != nil {
		return nil, err
	}
	log.Debugf("Using cipher %s", strategy.Name())

	store := vault.New(s.VaultFile, strategy, vault.WithLogger(log))
	loaded, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading vault: %w", err)
	}

	f := &feed.Feed{}
	repo := repository.New(store, f)
	repo.Load(repository.DefaultCategory, loaded.Records)

	session := &Session{
		settings: s,
		log:      log,
		gate:     g,
		store:    store,
		repo:     repo,
		feed:     f,
		counter:  &feed.Counter{},
		skipped:  loaded.Skipped,
	}
	session.unsubscribe = append(session.unsubscribe, f.Subscribe(session.counter))

	if s.Audit {
		session.journal = &audit.Journal{Path: s.AuditFile, Logger: log}
		session.unsubscribe = append(session.unsubscribe, f.Subscribe(session.journal))
	}

	log.Debugf("Unlocked vault with %d records (%d skipped)", len(loaded.Records), len(loaded.Skipped))
	return session, nil
}

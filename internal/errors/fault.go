package errors

import "errors"

// Kind classifies a Fault.
type Kind int

const (
	KindKeyMaterial Kind = iota + 1
	KindCipher
	KindCodec
	KindGate
	KindStore
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindKeyMaterial:
		return "KeyMaterialFault"
	case KindCipher:
		return "CipherFault"
	case KindCodec:
		return "CodecFault"
	case KindGate:
		return "GateFault"
	case KindStore:
		return "StoreFault"
	default:
		return "Fault"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindKeyMaterial:
		return ErrKeyMaterial
	case KindCipher:
		return ErrCipher
	case KindCodec:
		return ErrCodec
	case KindGate:
		return ErrGate
	case KindStore:
		return ErrStore
	default:
		return nil
	}
}

// Fault is a categorized failure. Op names the failing operation and Err the
// technical cause. Error() is operator text; use UserMessage for end users.
type Fault struct {
	Kind Kind
	Op   string
	Err  error
}

// NewFault returns a *Fault of the given kind.
func NewFault(kind Kind, op string, err error) *Fault {
	return &Fault{Kind: kind, Op: op, Err: err}
}

func (f *Fault) Error() string {
	msg := f.Kind.String()
	if f.Op != "" {
		msg += " (" + f.Op + ")"
	}
	if s := f.Kind.sentinel(); s != nil {
		msg += ": " + s.Error()
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

// Unwrap exposes both the category sentinel and the cause.
func (f *Fault) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := f.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if f.Err != nil {
		errs = append(errs, f.Err)
	}
	return errs
}

// KeyMaterialFault wraps err as a KindKeyMaterial fault.
func KeyMaterialFault(op string, err error) error { return NewFault(KindKeyMaterial, op, err) }

// CipherFault wraps err as a KindCipher fault.
func CipherFault(op string, err error) error { return NewFault(KindCipher, op, err) }

// CodecFault wraps err as a KindCodec fault.
func CodecFault(op string, err error) error { return NewFault(KindCodec, op, err) }

// GateFault wraps err as a KindGate fault.
func GateFault(op string, err error) error { return NewFault(KindGate, op, err) }

// StoreFault wraps err as a KindStore fault.
func StoreFault(op string, err error) error { return NewFault(KindStore, op, err) }

// KindOf returns the kind of the first Fault in err's chain, or 0.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return 0
}

// genericMessage is shown for anything not classified below.
const genericMessage = "An unexpected error occurred. Check the operator log for details."

// UserMessage maps err to text that is safe to show to an end user. It never
// includes err.Error(), which may carry paths or primitive diagnostics.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrPassphraseMismatch):
		return "The master password is incorrect."
	case errors.Is(err, ErrPassphraseTooShort):
		return "The master password is too short."
	case errors.Is(err, ErrTooManyAttempts):
		return "Too many failed attempts."
	case errors.Is(err, ErrGateNotProvisioned), errors.Is(err, ErrVaultNotInitialized):
		return "The vault has not been initialized."
	case errors.Is(err, ErrVaultAlreadyInitialized):
		return "The vault has already been initialized."
	case errors.Is(err, ErrUnknownCipher):
		return "The configured cipher is not supported."
	case errors.Is(err, ErrInvalidConfig):
		return "The configuration file is invalid."
	case errors.Is(err, ErrInvalidInput):
		return "The input contains invalid characters or is empty."
	case errors.Is(err, ErrRecordNotFound):
		return "No matching credential was found."
	case errors.Is(err, ErrNoRecords):
		return "The vault is empty."
	case errors.Is(err, ErrExportTargetIsVault):
		return "The export destination cannot be the vault file."
	}

	switch KindOf(err) {
	case KindKeyMaterial:
		return "The encryption key could not be loaded."
	case KindCipher:
		return "A cryptographic operation failed."
	case KindCodec:
		return "A stored record is malformed."
	case KindGate:
		return "The master password file could not be accessed."
	case KindStore:
		return "The vault file could not be accessed."
	}

	return genericMessage
}

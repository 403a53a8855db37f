// Package audit records a change journal for the vault.
//
// Every applied change (add, remove, modify, clear) and every session
// operation (init, export, passphrase change) is appended to the journal
// as one JSON object per line:
//
//	audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Operation name
//   - Category, service and username of the affected record
//
// Secrets are never written to the journal.
//
// # Usage
//
// A Journal is a feed subscriber:
//
//	j := &audit.Journal{Path: settings.AuditFile}
//	unsubscribe := f.Subscribe(j)
//
// Operations without a feed event are logged directly:
//
//	j.Log(audit.Entry{Operation: audit.OpExport, OutputPath: dest})
//
// # Failure Handling
//
// Journaling is best-effort. If a write fails the change it describes has
// already been applied and stays applied; the failure is only reported to
// the operator log.
//
// # Reading Logs
//
// Use ReadEntries() to parse the journal for display. Malformed entries
// are silently skipped to handle partial writes.
package audit

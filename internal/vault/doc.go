// Package vault persists credential records as an encrypted log.
//
// The log is a UTF-8 text file with one line per record. Each line is the
// base64 token of the ciphertext of one encoded record; there is no header
// and no index. Every line is independent: a line that fails to decode or
// authenticate is skipped on load and the remaining lines are still
// returned.
//
// # Writes
//
// Append adds a single line without touching existing content. OverwriteAll
// encrypts the complete record set first and then replaces the file
// atomically, so a cipher failure never leaves a half-written log.
//
// # Concurrency
//
// A Store assumes it is the only writer of its file. Two processes sharing
// one log are not supported.
package vault

// Package logger provides structured logging for SecureVault commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Console output is formatted with semantic prefixes and colors.
// Every message is also mirrored to an optional operator sink, a zap logger
// writing JSON lines to a file, which is the only place technical error
// detail is recorded.
//
// # Verbosity Levels
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Warnings and errors are always shown.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Always shown
//	Logger.Errorf()          // Always shown
//	Logger.Shield()          // Records err for operators, returns safe user text
//
// # Usage
//
// There is no package-level logger. Commands build one in their
// PersistentPreRun and pass it explicitly to workflows and stores:
//
//	op, _ := logger.NewOperator(settings.OperatorLogFile, debug)
//	log := logger.Logger{Verbose: verbose, Debug: debug, Operator: op}
//	store := vault.New(path, strategy, vault.WithLogger(log))
package logger

// Package logger provides leveled logging for dotsync CLI commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is formatted with colored semantic prefixes.
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
//	Logger.Infof()            // Shown with --verbose
//	Logger.Debugf()           // Shown only with --debug
//	Logger.Warnf()            // Always shown
//	Logger.Errorf()           // Always shown
//	Logger.ErrorfAndReturn()  // Logs and returns the error
//
// # Usage
//
// Create a logger with the desired verbosity:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Processing %d files", count)
//
// Commands typically create a logger in their PersistentPreRun and
// pass it to internal functions.
package logger

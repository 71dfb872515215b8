// Package logger provides structured logging for marketweb using zerolog.
//
// Loggers are created from a Config (level, format, output) and scoped per
// component. Fields are passed as maps so call sites stay uniform:
//
//	log := logger.WithComponent("providers")
//	log.Info("listing refreshed", logger.Fields("count", 12, "locale", "en"))
package logger

// Package logger builds configured slog.Logger instances.
//
// Loggers are created once at startup and passed to components explicitly.
// Production gets JSON output at info level, development gets text output at
// debug level:
//
//	log := logger.New(
//		logger.WithEnvironment(env, "leadmail"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
// Context extractors pull request-scoped attributes (request ID, environment
// tag) into every record logged with a context-aware method such as
// InfoContext.
package logger

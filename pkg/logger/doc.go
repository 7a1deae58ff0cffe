// Package logger builds configured slog.Logger instances with context-aware
// attribute injection.
//
// # Usage
//
//	log := logger.New(
//		logger.WithDevelopment("pollaroo"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
//	log.InfoContext(ctx, "poll created", logger.PollID(42))
//
// Extractors registered via WithContextExtractors run once per record, so
// values carried on the context (request IDs, user IDs) show up on every log
// line without the call sites passing them explicitly.
package logger

// Package logger builds slog loggers for the engine: env-driven level and
// format, static service attributes, and context extractors that stamp each
// record with request-scoped values such as the tenant ID.
//
// Wire the authctx extractor so every log line carries its tenant:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	log := logger.NewFromConfig(cfg,
//		logger.WithContextExtractors(authctx.LoggerExtractor()))
//	logger.SetAsDefault(log)
package logger

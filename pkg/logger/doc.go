// Package logger builds *slog.Logger instances with environment presets and
// request-scoped attributes.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "tagform"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "tags decoded", logger.Tags(set.Names()))
//
// Context extractors run on every record, so values stored on the request
// context after the logger was built (request id) still show up. The attr
// helpers keep key names consistent across packages.
package logger

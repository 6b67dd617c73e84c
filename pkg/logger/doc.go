// Package logger builds the *slog.Logger used across tickstate and keeps
// attribute keys consistent between packages.
//
// New applies an environment preset (development logs text at debug, staging
// and production log JSON at info) and then any explicit overrides:
//
//	log := logger.New(
//	    logger.WithEnvironment(logger.Production, "tickstate"),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithOutput(os.Stderr),
//	)
//
// Records logged with a context prepared by ContextWithRunID carry a run_id
// attribute, so everything a loop logs during one run can be correlated.
// Additional ContextExtractor callbacks can be registered with
// WithContextExtractors.
//
// Attribute helpers such as Machine, State, Transition, Phase and Tick return
// slog.Attr values with fixed keys:
//
//	log.InfoContext(ctx, "state changed",
//	    logger.Machine("door"),
//	    logger.Transition("closed", "open"),
//	)
//
// Error and Errors return an empty attribute for nil errors, which slog drops,
// so they can be passed without a nil check.
package logger

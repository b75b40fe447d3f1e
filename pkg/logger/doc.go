// Package logger builds configured slog.Logger instances and provides typed
// attribute helpers so log keys stay consistent across the kit.
//
// Services in this kit accept a *slog.Logger through functional options and
// default to a discarding logger, so logging never becomes a hard dependency.
//
//	log := logger.New(
//		logger.WithProduction("authkit"),
//	)
//	log.Info("magic code issued", logger.Email(email), logger.Component("magic_code"))
package logger

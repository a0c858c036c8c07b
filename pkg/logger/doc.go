// Package logger builds configured log/slog loggers with consistent
// attribute naming and optional context-value injection.
//
// Components of the entitlement engine take a *slog.Logger and log with
// the attribute helpers from this package so that user, plan and feature
// identifiers keep the same keys everywhere:
//
//	log := logger.New(logger.WithProduction("entitlement"))
//	log.Warn("subscription fetch failed, failing closed to free",
//		logger.UserID(userID),
//		logger.Error(err),
//	)
//
// Context extractors let request-scoped values (request IDs, session IDs)
// ride along on every record without threading them by hand:
//
//	log := logger.New(
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
package logger

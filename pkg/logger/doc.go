// Package logger builds *slog.Logger instances with functional options and
// injects request-scoped values (request id, tenant id) from context.Context
// into every record.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "tenancy"),
//	    logger.WithContextExtractors(
//	        requestid.LoggerExtractor(),
//	        tenant.LoggerExtractor(),
//	    ),
//	)
//	log.InfoContext(ctx, "tenant database ready", logger.Database("tenant_42"))
//
// Attribute helpers in attr.go keep key names consistent across packages.
package logger

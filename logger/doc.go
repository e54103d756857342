// Package logger provides structured logging for the transcript service
// using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying request IDs from the context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("resolver")
//	log.Info("transcript resolved", logger.Fields("source", "auto_caption"))
package logger

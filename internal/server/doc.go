// Package server provides the HTTP server for the job runner.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	│                        HTTP :8000                             │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  ginzap.Ginzap (request logging, "http" logger)         │  │
//	│  │  ginzap.RecoveryWithZap (panic → 500, stack logged)     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
// Development mode ("dev") runs gin in debug mode. Production mode ("prod")
// runs gin in release mode. Both serve plain HTTP; unknown routes return a
// JSON 404.
//
// # Server Lifecycle
//
//	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
//	    v1.RegisterHandlers(router, handler)
//	})
//
//	// Blocks until error or shutdown
//	err = srv.Start(ctx)
//
//	// Graceful shutdown, waits for in-flight requests
//	srv.Stop(ctx)
package server

// Package handlers implements the HTTP API layer for the job runner.
//
// Handlers delegate to services.RunnerService and only deal with request
// parsing, error mapping and model-to-API conversion.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                v1.RegisterHandlers (query parsing)              │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request validation                                           │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                       RunnerService                             │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
//	┌────────┬─────────────────────┬────────────────────────────────────┐
//	│ Method │ Endpoint            │ Description                        │
//	├────────┼─────────────────────┼────────────────────────────────────┤
//	│ POST   │ /runs               │ Submit a batch, 202 with the run   │
//	│ GET    │ /runs               │ List runs, newest first            │
//	│ GET    │ /runs/{id}          │ Get a run (live counters if busy)  │
//	│ GET    │ /runs/{id}/results  │ Results, ?status&type&limit&offset │
//	│ POST   │ /runs/{id}/stop     │ Stop admission on a live run       │
//	│ GET    │ /jobs/types         │ Registered job types               │
//	└────────┴─────────────────────┴────────────────────────────────────┘
//
// # Error Mapping
//
//	┌───────────────────────────┬────────┐
//	│ Error                     │ Status │
//	├───────────────────────────┼────────┤
//	│ malformed body / params   │ 400    │
//	│ InvalidJobError           │ 400    │
//	│ ResourceNotFoundError     │ 404    │
//	│ ErrServiceClosed          │ 503    │
//	│ anything else             │ 500    │
//	└───────────────────────────┴────────┘
//
// Errors are returned as {"error": "..."}.
package handlers

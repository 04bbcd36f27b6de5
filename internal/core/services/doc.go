// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Ingestion runs chunking, embedding, indexing and saving in that order.
// Searching embeds the query, asks the index for the nearest chunks and
// groups them by source document.
package services

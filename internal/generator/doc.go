// Package generator periodically creates synthetic tasks through the task
// service. It runs in the background next to the HTTP server, shares the
// same store, and never coordinates with API traffic.
//
// A failed creation is logged and the loop continues with the next tick.
package generator

// Package main boots the webtop backend, one binary that is the whole
// server side of a browser desktop.
//
// Everything lives in this process: the virtual filesystem and its
// trash, the bucketed content store (embedded redis by default), the
// applet registry, window instances with their per-window navigation,
// desktop settings and named sessions. The shell talks REST to it and
// listens on one WebSocket for change events.
//
//	shell (browser) → webtop backend → redis (embedded or external)
//	                                 → state dir (metadata, sessions)
//
// Configuration comes from the environment (see infrastructure/config);
// the -port, -state and -dev flags override it for local runs.
//
// Usage:
//
//	./server                                  # :8090, state under ./data
//	./server -port 9000 -state /var/lib/webtop
//	./server -dev                             # colored logs, debug level
//
// SIGINT or SIGTERM drains in-flight requests, flushes pending state
// saves and exits.
package main

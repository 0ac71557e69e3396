// Package ws streams desktop events to connected shells over WebSocket.
//
// Every committed mutation in the core (filesystem changes, window
// lifecycle, settings, sessions) is published on the in-process event
// bus; this package subscribes each connection to the bus and forwards
// the events it cares about. A single writer goroutine per connection
// owns the socket's write side, so bus fan-out, control pings, and
// request replies never interleave mid-frame.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping, answered with pong
//   - subscribe: Replace the connection's topic filter
//
// Message Types (Server → Client):
//   - system: Connection established
//   - pong: Ping reply
//   - subscribed: Topic filter acknowledgement
//   - error: Unknown client frame
//   - <event type>: One desktop event, e.g. "fs.changed" or
//     "instance.focused", with its payload under "data"
//
// Topic filters match whole event types or dot prefixes: subscribing to
// "fs" receives every filesystem event. An empty filter receives all.
// Slow consumers lose events rather than stalling the emitters.
//
// Example Usage:
//
//	handler := ws.NewHandler(bus, log).WithMetrics(metrics)
//	router.GET("/stream", handler.HandleConnection)
package ws

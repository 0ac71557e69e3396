// Package logging is the zap setup shared by the whole backend.
//
// One root logger exists per process, built by the server from config.
// Components never construct their own; they receive the root logger and
// derive a named child:
//
//	log := root.Component("vfs")
//	log.Info("Item added", zap.String("path", item.Path))
//
// Production output is JSON at info level. Development switches to a
// colored console encoder at debug level and keeps stacktraces. Tests use
// NewNop.
package logging

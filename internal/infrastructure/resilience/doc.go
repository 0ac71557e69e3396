// Package resilience provides the circuit breaker that guards outbound
// fetches.
//
// The content loader pulls lazy payloads from remote sources. When a
// mirror goes bad, every lazy open would otherwise wait out the full retry
// and timeout budget before failing; the breaker converts that into a fast
// failure after a few consecutive losses and rations probe traffic until
// the upstream answers again.
//
// The breaker has three positions:
//
//	closed     calls pass; consecutive failures are counted
//	open       calls fail immediately with ErrCircuitOpen
//	half-open  a bounded number of probes pass, the rest get ErrProbeLimit
//
// Callers bracket the guarded call with Allow and Record. The breaker
// holds no goroutines and no timers; open-to-half-open advancement happens
// lazily on the next Allow or State call after the cooldown.
package resilience

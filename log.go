package chanx

import "github.com/btcsuite/btclog/v2"

// log is the package-level subsystem logger. It defaults to a no-op
// implementation so importing chanx never forces a logging backend on the
// caller; applications that want visibility into channel lifecycle events
// call UseLogger, mirroring the btcsuite/lnd convention already used by the
// actor subsystem this package's mailbox adapter builds on.
var log btclog.Logger = btclog.Disabled

// UseLogger sets the subsystem logger used by this package. Call it once
// during application startup, before any Channel is created, to avoid a
// data race on the package-level logger variable.
func UseLogger(logger btclog.Logger) {
	log = logger
}

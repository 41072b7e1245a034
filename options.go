package chanx

import "github.com/lightningnetwork/lnd/fn/v2"

// config holds the optional settings a Channel can be constructed with.
type config struct {
	name fn.Option[string]
}

// Option configures a Channel at construction time. Following the actor
// subsystem's RegisterOption pattern, options are functions over an
// unexported config struct rather than a public struct literal, so new
// settings can be added without breaking callers.
type Option func(*config)

// WithName tags a channel with a name used only for log correlation (e.g.
// "orders" or "heartbeats"). Unnamed channels log under a generic tag.
func WithName(name string) Option {
	return func(cfg *config) {
		cfg.name = fn.Some(name)
	}
}

func (cfg *config) logName() string {
	return cfg.name.UnwrapOr("channel")
}

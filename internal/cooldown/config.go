package cooldown

import "github.com/jonboulle/clockwork"

// Config holds cooldown service configuration
type Config struct {
	// DevMode bypasses all cooldowns when true
	DevMode bool

	// Clock is the time source; the real clock when nil
	Clock clockwork.Clock
}

func (c Config) clock() clockwork.Clock {
	if c.Clock == nil {
		return clockwork.NewRealClock()
	}
	return c.Clock
}

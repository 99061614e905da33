/*
Package resilience provides a circuit breaker for calls to remote hosts.

# Overview

The page engine fetches every URL the browser navigates to. When a host stops
answering, each navigation would otherwise wait for the full timeout and
retries. A breaker per host fails those fetches immediately for a cooldown and
then lets a single probe through.

# Usage

	breakers := resilience.NewGroup(resilience.Settings{
		Threshold: 3,
		Cooldown:  30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Circuit changed", zap.String("host", name), zap.Stringer("to", to))
		},
	})

	done, err := breakers.Get(u.Host).Allow()
	if err != nil {
		return err // resilience.ErrCircuitOpen
	}
	resp, err := client.Get(u.String())
	done(err)

# States

	Closed --[Threshold failures]-> Open --[Cooldown]-> Half-Open --[probe ok]-> Closed
	                                  ^                     |
	                                  +----[probe failed]---+

A cancelled call releases its slot without counting as success or failure.
*/
package resilience

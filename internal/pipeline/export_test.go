package pipeline

import "github.com/jonboulle/clockwork"

// SetClock replaces the run clock so tests can drive the interval loop.
func (p *Pipeline) SetClock(c clockwork.Clock) { p.clock = c }

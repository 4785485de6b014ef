package spy

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// DefaultThrottle is the minimum time between two Scrolled events.
const DefaultThrottle = 100 * time.Millisecond

type options struct {
	log      zerolog.Logger
	clock    clock.Clock
	throttle time.Duration
}

func defaultOptions() options {
	return options{
		log:      zerolog.Nop(),
		clock:    clock.New(),
		throttle: DefaultThrottle,
	}
}

// Option configures a Spy or a Scroller.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithClock sets the clock the scroll throttle reads.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

// WithThrottle sets the scroll throttle window. Non-positive values keep
// DefaultThrottle.
func WithThrottle(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.throttle = d
		}
	}
}

type addOptions struct {
	once     bool
	checkNow bool
}

// AddOption configures a single AddSpy call. Options are not remembered
// between calls for the same selector.
type AddOption func(*addOptions)

// Once removes the target after its first match.
func Once() AddOption {
	return func(o *addOptions) {
		o.once = true
	}
}

// CheckNow matches the target immediately if it is already visible.
func CheckNow() AddOption {
	return func(o *addOptions) {
		o.checkNow = true
	}
}

// Package selftest runs the production check of a relay card: it cycles all
// four relays on in order, then off, over and over, while the operator
// watches (and listens to) the board. A single keypress ends the test and
// classifies it — y for a pass, anything else for a fail.
//
// Exactly two concurrent activities exist during a run: the sequencing loop
// issuing verified relay writes, and the one-shot listener feeding the
// verdict channel. Cancellation is cooperative: the loop polls the channel
// before every relay action, so a verdict takes effect within one
// channel-action-plus-hold-delay. Whatever ends the run, the relay register
// is forced back to zero before the verdict is reported.
package selftest

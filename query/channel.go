package query

// Channel is the synchronous ask/respond contract with an external
// solver process. A round issues one command and blocks for exactly one
// response before proceeding.
type Channel interface {
	Ask(command string) (string, error)
	Close() error
}

// ChannelFunc adapts a plain function to the Channel interface. Used by
// tests and by back ends that multiplex their own transport.
type ChannelFunc func(command string) (string, error)

// Ask calls the underlying function.
func (f ChannelFunc) Ask(command string) (string, error) { return f(command) }

// Close is a no-op.
func (f ChannelFunc) Close() error { return nil }

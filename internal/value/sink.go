package value

// Sink accepts values produced by a reader or a transformation stage.
type Sink interface {
	Write(v Value) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Value) error

func (f SinkFunc) Write(v Value) error { return f(v) }

// Collector is a Sink that keeps the last value written, for tests and
// one-shot reads.
type Collector struct {
	Value   Value
	Written bool
}

func (c *Collector) Write(v Value) error {
	c.Value = v
	c.Written = true
	return nil
}

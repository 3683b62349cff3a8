package encode

import "fmt"

// Channel is one of the six color sub-channels a column can be bound to. R, G and B form
// the upper (x-axis) triple, LowerR, LowerG and LowerB the lower (y-axis) triple.
type Channel int

// Channels in format-letter order.
const (
	R Channel = iota
	G
	B
	LowerR
	LowerG
	LowerB
	numChannels
)

var letters = [numChannels]byte{'R', 'G', 'B', 'r', 'g', 'b'}

func (c Channel) String() string {
	if c < 0 || c >= numChannels {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return string(letters[c])
}

func channelFor(ch byte) (Channel, bool) {
	for c, l := range letters {
		if l == ch {
			return Channel(c), true
		}
	}
	return 0, false
}

// Unbound marks a channel with no column.
const Unbound = -1

// Binding maps each channel to a column index, or Unbound.
type Binding [numChannels]int

// Column returns the column bound to c.
func (b Binding) Column(c Channel) (int, bool) {
	i := b[c]
	return i, i != Unbound
}

// Len returns the number of bound channels.
func (b Binding) Len() int {
	var n int
	for _, i := range b {
		if i != Unbound {
			n++
		}
	}
	return n
}

// ConfigurationError reports an encoding request that cannot be satisfied.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "encode: " + e.Msg
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// ParseFormat scans a format string such as "RGBrgb" or "RxxbX" left to right. The letter
// at position i binds column i to its channel unless the channel is already bound. X and x
// skip a column.
func ParseFormat(format string) (Binding, error) {
	var b Binding
	for i := range b {
		b[i] = Unbound
	}
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch == 'X' || ch == 'x' {
			continue
		}
		c, ok := channelFor(ch)
		if !ok {
			return b, configErrorf("unknown channel %q at position %d of format %q", ch, i, format)
		}
		if b[c] == Unbound {
			b[c] = i
		}
	}
	return b, nil
}

package logging

import "fmt"

// Printf adapts a Logger to the printf-style interface expected by the SDK
// client (Debugf, Infof, Errorf).
type Printf struct {
	L Logger
}

// NewPrintf returns a printf adapter over l. A nil l discards output.
func NewPrintf(l Logger) Printf {
	if l == nil {
		l = NewNopLogger()
	}
	return Printf{L: l}
}

func (p Printf) Debugf(format string, args ...interface{}) { p.L.Debug(fmt.Sprintf(format, args...)) }
func (p Printf) Infof(format string, args ...interface{})  { p.L.Info(fmt.Sprintf(format, args...)) }
func (p Printf) Errorf(format string, args ...interface{}) { p.L.Error(fmt.Sprintf(format, args...)) }

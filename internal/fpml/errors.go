package fpml

import "fmt"

// ParseError reports a failure to convert an FpML document into the trade
// model. All decoding failures surface as this one kind, distinguished by
// message; a lower-level cause (bad number, bad date) may be wrapped.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

func wrapParseError(err error, format string, args ...any) *ParseError {
	if pe, ok := err.(*ParseError); ok {
		return pe
	}
	return &ParseError{Msg: fmt.Sprintf(format, args...), Err: err}
}

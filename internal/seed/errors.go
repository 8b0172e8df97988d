package seed

import "fmt"

// UnsupportedFormatError reports a seed name using vocabulary the parser
// does not recognize. It is non-fatal: callers exclude the record from
// classification and surface it as unparsed instead of aborting the run.
type UnsupportedFormatError struct {
	Name   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported seed format %q: %s", e.Name, e.Reason)
}

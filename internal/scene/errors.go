package scene

import "fmt"

// ParseError reports an identifier whose shape looked right but whose
// fields could not be read.
type ParseError struct {
	ID     string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("scene: cannot parse %q: %s", e.ID, e.Reason)
}

// UnsupportedSatelliteError reports a satellite number no dataset maps to.
type UnsupportedSatelliteError struct {
	Satellite int
}

func (e *UnsupportedSatelliteError) Error() string {
	return fmt.Sprintf("scene: unsupported satellite number %d", e.Satellite)
}

// UnresolvedIdentifierError is returned for strings that are neither a
// product nor a scene identifier.
type UnresolvedIdentifierError struct {
	ID string
}

func (e *UnresolvedIdentifierError) Error() string {
	return fmt.Sprintf("scene: failed to guess dataset from identifier %q", e.ID)
}

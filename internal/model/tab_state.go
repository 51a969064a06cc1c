package model

// TabState is the monitor's view of a tab.
type TabState int

const (
	// TabUnobserved means no navigation has been seen for the tab.
	TabUnobserved TabState = iota
	// TabChecking means an assessment is in flight.
	TabChecking
	// TabResolved means the latest navigation has a committed record.
	TabResolved
)

// String returns the state name.
func (s TabState) String() string {
	switch s {
	case TabChecking:
		return "checking"
	case TabResolved:
		return "resolved"
	default:
		return "unobserved"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s TabState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

package builder

// MajorError is the top-level outcome of a LoadConfig call.
type MajorError int

const (
	MajorNone MajorError = iota
	MajorInvalidFile
	MajorInvalidJSON
	MajorInvalidEngineName
	MajorInvalidComponents
	MajorInvalidNets
	MajorInvalidSer
	MajorInvalidDnp3
)

var majorMessages = map[MajorError]string{
	MajorNone:              "None",
	MajorInvalidFile:       "Invalid file",
	MajorInvalidJSON:       "Invalid JSON",
	MajorInvalidEngineName: "Invalid engine name",
	MajorInvalidComponents: "Invalid engine components",
	MajorInvalidNets:       "Invalid engine nets",
	MajorInvalidSer:        "Invalid SER configuration",
	MajorInvalidDnp3:       "Invalid DNP3 configuration",
}

func (e MajorError) String() string {
	if s, ok := majorMessages[e]; ok {
		return s
	}
	return "Unknown major error"
}

// MinorError refines a MajorError with the specific sub-cause.
type MinorError int

const (
	MinorNone MinorError = iota
	MinorInvalidComponentOutput
	MinorInvalidNets
	MinorInvalidSerPoint
	MinorInvalidDnp3Session
	MinorInvalidDnp3Point
)

var minorMessages = map[MinorError]string{
	MinorNone:                   "None",
	MinorInvalidComponentOutput: "Invalid component output",
	MinorInvalidNets:            "Invalid net connection",
	MinorInvalidSerPoint:        "Invalid SER point",
	MinorInvalidDnp3Session:     "Invalid DNP3 session",
	MinorInvalidDnp3Point:       "Invalid DNP3 point",
}

func (e MinorError) String() string {
	if s, ok := minorMessages[e]; ok {
		return s
	}
	return "Unknown minor error"
}

// maxFragmentBytes bounds the offending-JSON snippet carried in error state.
const maxFragmentBytes = 500

func truncateFragment(s string) string {
	if len(s) <= maxFragmentBytes {
		return s
	}
	return s[:maxFragmentBytes]
}

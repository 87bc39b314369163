// Package options contains the program options.
package options

// Modes of the program.
const (
	ModeAssemble    = "assemble"
	ModeInterpret   = "interpret"
	ModeDisassemble = "disassemble"
)

// Output formats for trace and result files.
const (
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string // source file for assemble, binary file otherwise
	Output string // binary file for assemble, result file for interpret, listing for disassemble
	Trace  string // trace file written by assemble
	Config string // optional TOML config file
}

// Range is the half open memory range [Start, End) written by interpret.
type Range struct {
	Start int
	End   int
}

// Flags contains behavior options.
type Flags struct {
	AssembleTest bool   // verify the assembled binary by disassembling and reassembling it
	Debug        bool   // enable debug logging
	Quiet        bool   // only log errors
	TraceFormat  string // json or cbor
	ResultFormat string // json or cbor
}

// Program options of the application.
type Program struct {
	Mode string

	Parameters
	Range
	Flags
}

// Disassembler defines options to control the disassembler listing.
type Disassembler struct {
	HexComments    bool
	OffsetComments bool
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{
		HexComments:    true,
		OffsetComments: true,
	}
}

// Package detector handles output format detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/resh-hvh/uvm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles output format detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect fills in the trace and result formats that were not explicitly
// specified in the options, based on the output filename extensions.
func (d *Detector) Detect(opts options.Program) options.Program {
	if opts.TraceFormat == "" && opts.Mode == options.ModeAssemble {
		opts.TraceFormat = d.detectFromFile(opts.Trace)
		d.logger.Debug("Auto-detected trace format",
			log.String("format", opts.TraceFormat),
			log.String("file", opts.Trace))
	}
	if opts.ResultFormat == "" && opts.Mode == options.ModeInterpret {
		opts.ResultFormat = d.detectFromFile(opts.Output)
		d.logger.Debug("Auto-detected result format",
			log.String("format", opts.ResultFormat),
			log.String("file", opts.Output))
	}
	return opts
}

// detectFromFile determines the format based on file extension.
func (d *Detector) detectFromFile(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".cbor":
		return options.FormatCBOR
	default:
		// Default to JSON for unknown extensions
		return options.FormatJSON
	}
}

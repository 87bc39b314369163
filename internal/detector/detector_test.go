package detector

import (
	"testing"

	"github.com/resh-hvh/uvm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name       string
		opts       options.Program
		wantTrace  string
		wantResult string
	}{
		{
			name: "explicit trace format",
			opts: options.Program{
				Mode:       options.ModeAssemble,
				Parameters: options.Parameters{Trace: "trace.json"},
				Flags:      options.Flags{TraceFormat: options.FormatCBOR},
			},
			wantTrace: options.FormatCBOR,
		},
		{
			name: "detect trace from .cbor extension",
			opts: options.Program{
				Mode:       options.ModeAssemble,
				Parameters: options.Parameters{Trace: "trace.CBOR"},
			},
			wantTrace: options.FormatCBOR,
		},
		{
			name: "unknown trace extension defaults to json",
			opts: options.Program{
				Mode:       options.ModeAssemble,
				Parameters: options.Parameters{Trace: "trace.log"},
			},
			wantTrace: options.FormatJSON,
		},
		{
			name: "detect result from .cbor extension",
			opts: options.Program{
				Mode:       options.ModeInterpret,
				Parameters: options.Parameters{Output: "result.cbor"},
			},
			wantResult: options.FormatCBOR,
		},
		{
			name: "disassemble leaves formats untouched",
			opts: options.Program{
				Mode:       options.ModeDisassemble,
				Parameters: options.Parameters{Output: "out.cbor"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.opts)
			assert.Equal(t, tt.wantTrace, got.TraceFormat)
			assert.Equal(t, tt.wantResult, got.ResultFormat)
		})
	}
}

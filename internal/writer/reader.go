package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/resh-hvh/uvm/internal/assembler"
	"github.com/resh-hvh/uvm/internal/options"
)

// ReadTrace reads a trace that was written by WriteTrace.
func ReadTrace(reader io.Reader, format string) ([]assembler.TraceEntry, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}

	var trace []assembler.TraceEntry
	switch format {
	case "", options.FormatJSON:
		var entries []jsonTraceEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decoding json trace: %w", err)
		}
		for _, entry := range entries {
			binary := make([]byte, len(entry.Binary))
			for i, b := range entry.Binary {
				if b < 0 || b > 0xff {
					return nil, fmt.Errorf("invalid trace byte %d", b)
				}
				binary[i] = byte(b)
			}
			trace = append(trace, assembler.TraceEntry{
				Mnemonic: entry.Mnemonic,
				Operand:  entry.Operand,
				Binary:   binary,
			})
		}

	case options.FormatCBOR:
		var entries []cborTraceEntry
		if err := cbor.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decoding cbor trace: %w", err)
		}
		for _, entry := range entries {
			trace = append(trace, assembler.TraceEntry(entry))
		}

	default:
		return nil, fmt.Errorf("unsupported trace format '%s'", format)
	}
	return trace, nil
}

// ReadResult reads memory values that were written by WriteResult.
func ReadResult(reader io.Reader, format string) ([]int64, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading result: %w", err)
	}

	var values []int64
	switch format {
	case "", options.FormatJSON:
		err = json.Unmarshal(data, &values)
	case options.FormatCBOR:
		err = cbor.Unmarshal(data, &values)
	default:
		return nil, fmt.Errorf("unsupported result format '%s'", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s result: %w", format, err)
	}
	return values, nil
}

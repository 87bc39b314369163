// Package writer implements the trace and result file formats.
package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/resh-hvh/uvm/internal/assembler"
	"github.com/resh-hvh/uvm/internal/options"
)

const jsonIndent = "    "

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("writer: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// jsonTraceEntry lists the binary as numbers instead of the base64 string
// that encoding/json produces for byte slices.
type jsonTraceEntry struct {
	Mnemonic string `json:"mnemonic"`
	Operand  int64  `json:"operand"`
	Binary   []int  `json:"binary"`
}

type cborTraceEntry struct {
	Mnemonic string `cbor:"mnemonic"`
	Operand  int64  `cbor:"operand"`
	Binary   []byte `cbor:"binary"`
}

// Options of the writer.
type Options struct {
	Format string // json or cbor, defaults to json
}

// Writer writes trace and result files.
type Writer struct {
	options Options
	writer  io.Writer
}

// New creates a new writer.
func New(writer io.Writer, options Options) *Writer {
	return &Writer{
		options: options,
		writer:  writer,
	}
}

// WriteTrace writes the assembler trace.
func (w Writer) WriteTrace(trace []assembler.TraceEntry) error {
	switch w.options.Format {
	case "", options.FormatJSON:
		entries := make([]jsonTraceEntry, 0, len(trace))
		for _, entry := range trace {
			binary := make([]int, len(entry.Binary))
			for i, b := range entry.Binary {
				binary[i] = int(b)
			}
			entries = append(entries, jsonTraceEntry{
				Mnemonic: entry.Mnemonic,
				Operand:  entry.Operand,
				Binary:   binary,
			})
		}
		return w.writeJSON(entries)

	case options.FormatCBOR:
		entries := make([]cborTraceEntry, 0, len(trace))
		for _, entry := range trace {
			entries = append(entries, cborTraceEntry(entry))
		}
		return w.writeCBOR(entries)

	default:
		return fmt.Errorf("unsupported trace format '%s'", w.options.Format)
	}
}

// WriteResult writes the memory values of an interpreter run.
func (w Writer) WriteResult(values []int64) error {
	if values == nil {
		values = []int64{}
	}

	switch w.options.Format {
	case "", options.FormatJSON:
		return w.writeJSON(values)
	case options.FormatCBOR:
		return w.writeCBOR(values)
	default:
		return fmt.Errorf("unsupported result format '%s'", w.options.Format)
	}
}

func (w Writer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", jsonIndent)
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}

func (w Writer) writeCBOR(v any) error {
	data, err := cborEncMode.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cbor: %w", err)
	}
	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("writing cbor: %w", err)
	}
	return nil
}

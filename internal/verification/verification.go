// Package verification verifies that the generated binary can be recreated
// from its disassembly.
package verification

import (
	"bytes"
	"context"
	"fmt"

	"github.com/resh-hvh/uvm/internal/assembler"
	"github.com/resh-hvh/uvm/internal/disasm"
	"github.com/resh-hvh/uvm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// maxReportedMismatches limits the number of logged mismatching offsets.
const maxReportedMismatches = 10

// VerifyOutput disassembles the code, reassembles the listing and checks
// that the result matches the code byte for byte.
func VerifyOutput(ctx context.Context, logger *log.Logger, code []byte) error {
	var listing bytes.Buffer
	dis := disasm.New(logger, options.NewDisassembler())
	if _, err := dis.Process(ctx, code, &listing); err != nil {
		return fmt.Errorf("disassembling output: %w", err)
	}

	program, err := assembler.New(nil).AssembleReader(&listing)
	if err != nil {
		return fmt.Errorf("reassembling listing: %w", err)
	}

	if err := checkBufferEqual(logger, code, program.Code); err != nil {
		return fmt.Errorf("binary mismatch: %w", err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	firstDiff := -1
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if firstDiff == -1 {
			firstDiff = i
		}
		if diffs < maxReportedMismatches {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches, first at offset %d", diffs, firstDiff)
}

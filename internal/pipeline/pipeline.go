// Package pipeline orchestrates the assemble, interpret and disassemble workflows.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/resh-hvh/uvm/internal/assembler"
	"github.com/resh-hvh/uvm/internal/disasm"
	"github.com/resh-hvh/uvm/internal/interpreter"
	"github.com/resh-hvh/uvm/internal/loader"
	"github.com/resh-hvh/uvm/internal/options"
	"github.com/resh-hvh/uvm/internal/verification"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete workflow of a mode.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(),
	}
}

// Assemble loads the source file and assembles it.
func (p *Pipeline) Assemble(ctx context.Context, opts options.Program) (*assembler.Program, error) {
	lines, err := p.loader.LoadSource(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	return p.AssembleLines(ctx, lines, opts)
}

// AssembleLines assembles already loaded source lines.
func (p *Pipeline) AssembleLines(ctx context.Context, lines []string, opts options.Program) (*assembler.Program, error) {
	p.printInfo(opts)

	program, err := assembler.New(p.logger).Assemble(lines)
	if err != nil {
		return nil, fmt.Errorf("assembling: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.AssembleTest {
		if err := verification.VerifyOutput(ctx, p.logger, program.Code); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	p.logger.Debug("Assembled program",
		log.Int("instructions", len(program.Trace)),
		log.Int("bytes", len(program.Code)))
	return program, nil
}

// Interpret loads the binary file, executes it and returns the requested memory range.
func (p *Pipeline) Interpret(ctx context.Context, opts options.Program) ([]int64, error) {
	code, err := p.loader.LoadBinary(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading binary: %w", err)
	}
	return p.InterpretCode(ctx, code, opts)
}

// InterpretCode executes already loaded code and returns the requested memory range.
func (p *Pipeline) InterpretCode(ctx context.Context, code []byte, opts options.Program) ([]int64, error) {
	p.printInfo(opts)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var machineOpts []interpreter.Option
	if opts.Debug {
		machineOpts = append(machineOpts, interpreter.WithLogger(p.logger))
	}

	m := interpreter.New(machineOpts...)
	if err := m.Execute(code); err != nil {
		return nil, fmt.Errorf("executing: %w", err)
	}

	result, err := m.Memory(opts.Start, opts.End)
	if err != nil {
		return nil, fmt.Errorf("reading result: %w", err)
	}
	return result, nil
}

// Disassemble loads the binary file and writes its listing to the writer.
func (p *Pipeline) Disassemble(ctx context.Context, opts options.Program, disasmOpts options.Disassembler,
	writer io.Writer) ([]disasm.Offset, error) {

	code, err := p.loader.LoadBinary(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading binary: %w", err)
	}

	p.printInfo(opts)

	dis := disasm.New(p.logger, disasmOpts)
	offsets, err := dis.Process(ctx, code, writer)
	if err != nil {
		return nil, fmt.Errorf("disassembling: %w", err)
	}
	return offsets, nil
}

// printInfo prints information about the file being processed.
func (p *Pipeline) printInfo(opts options.Program) {
	if opts.Quiet {
		return
	}

	switch opts.Mode {
	case options.ModeAssemble:
		p.logger.Info("Assembling source",
			log.String("file", opts.Input),
			log.String("trace_format", opts.TraceFormat))

	case options.ModeInterpret:
		p.logger.Info("Interpreting binary",
			log.String("file", opts.Input),
			log.Int("start", opts.Start),
			log.Int("end", opts.End))

	case options.ModeDisassemble:
		p.logger.Info("Disassembling binary",
			log.String("file", opts.Input))
	}
}

// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/resh-hvh/uvm/internal/detector"
	"github.com/resh-hvh/uvm/internal/options"
	"github.com/resh-hvh/uvm/internal/pipeline"
	"github.com/resh-hvh/uvm/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow of the selected mode.
// Output files are only created after the mode completed successfully.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, disasmOptions options.Disassembler) error {
	pipe := pipeline.New(logger)
	opts = detector.New(logger).Detect(opts)

	switch opts.Mode {
	case options.ModeAssemble:
		return assembleFile(ctx, pipe, opts)
	case options.ModeInterpret:
		return interpretFile(ctx, pipe, opts)
	case options.ModeDisassemble:
		return disassembleFile(ctx, pipe, opts, disasmOptions)
	default:
		return fmt.Errorf("unsupported mode '%s'", opts.Mode)
	}
}

func assembleFile(ctx context.Context, pipe *pipeline.Pipeline, opts options.Program) error {
	program, err := pipe.Assemble(ctx, opts)
	if err != nil {
		return err
	}

	var trace bytes.Buffer
	w := writer.New(&trace, writer.Options{Format: opts.TraceFormat})
	if err := w.WriteTrace(program.Trace); err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}

	if err := writeFile(opts.Output, program.Code); err != nil {
		return err
	}
	return writeFile(opts.Trace, trace.Bytes())
}

func interpretFile(ctx context.Context, pipe *pipeline.Pipeline, opts options.Program) error {
	values, err := pipe.Interpret(ctx, opts)
	if err != nil {
		return err
	}

	var result bytes.Buffer
	w := writer.New(&result, writer.Options{Format: opts.ResultFormat})
	if err := w.WriteResult(values); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return writeFile(opts.Output, result.Bytes())
}

func disassembleFile(ctx context.Context, pipe *pipeline.Pipeline, opts options.Program,
	disasmOptions options.Disassembler) error {

	var listing bytes.Buffer
	if _, err := pipe.Disassemble(ctx, opts, disasmOptions, &listing); err != nil {
		return err
	}

	if opts.Output == "" {
		if _, err := io.Copy(os.Stdout, &listing); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
		return nil
	}
	return writeFile(opts.Output, listing.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("uvm", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

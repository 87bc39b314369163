// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/resh-hvh/uvm/internal/config"
	"github.com/resh-hvh/uvm/internal/options"
)

// ParseFlags parses command line flags and returns program and disassembler options
func ParseFlags() (options.Program, options.Disassembler, error) {
	return parseArgs(os.Args)
}

func parseArgs(osArgs []string) (options.Program, options.Disassembler, error) {
	flags := flag.NewFlagSet(osArgs[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)
	disasmOptions := options.NewDisassembler()
	noHexComments, noOffsets := readDisasmOptionFlags(flags)

	err := flags.Parse(osArgs[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, disasmOptions, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, disasmOptions, err
	}

	if err := readPositional(&opts, args, flags); err != nil {
		return opts, disasmOptions, err
	}

	set := setFlags(flags)
	if opts.Config != "" {
		cfg, err := config.Load(opts.Config)
		if err != nil {
			return opts, disasmOptions, err
		}
		applyConfig(&opts, &disasmOptions, cfg, set)
	}

	if set["nohexcomments"] {
		disasmOptions.HexComments = !*noHexComments
	}
	if set["nooffsets"] {
		disasmOptions.OffsetComments = !*noOffsets
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, disasmOptions, err
	}

	return opts, disasmOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: uvm [options] <mode> <arguments>\n\n")
	fmt.Printf("modes:\n")
	fmt.Printf("  %s <source> <binary> <trace>\n", options.ModeAssemble)
	fmt.Printf("  %s <binary> <result> <start> <end>\n", options.ModeInterpret)
	fmt.Printf("  %s <binary> [listing]\n\n", options.ModeDisassemble)
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && len(arg) > 1 && arg[0] == '-' && !isNumber(arg) {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after mode, please pass all options before the mode", arg),
			}
		}
	}
	return nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// readPositional assigns the positional arguments of the selected mode.
func readPositional(opts *options.Program, args []string, flags *flag.FlagSet) error {
	opts.Mode = strings.ToLower(args[0])
	args = args[1:]

	switch opts.Mode {
	case options.ModeAssemble:
		if len(args) != 3 {
			return usageErrorf(flags, "%s expects 3 arguments, got %d", opts.Mode, len(args))
		}
		opts.Input, opts.Output, opts.Trace = args[0], args[1], args[2]

	case options.ModeInterpret:
		if len(args) != 4 {
			return usageErrorf(flags, "%s expects 4 arguments, got %d", opts.Mode, len(args))
		}
		opts.Input, opts.Output = args[0], args[1]

		var err error
		if opts.Start, err = strconv.Atoi(args[2]); err != nil {
			return usageErrorf(flags, "invalid memory range start '%s'", args[2])
		}
		if opts.End, err = strconv.Atoi(args[3]); err != nil {
			return usageErrorf(flags, "invalid memory range end '%s'", args[3])
		}

	case options.ModeDisassemble:
		if len(args) < 1 || len(args) > 2 {
			return usageErrorf(flags, "%s expects 1 or 2 arguments, got %d", opts.Mode, len(args))
		}
		opts.Input = args[0]
		if len(args) == 2 {
			opts.Output = args[1]
		}

	default:
		return usageErrorf(flags, "unknown mode '%s'", opts.Mode)
	}
	return nil
}

func usageErrorf(flags *flag.FlagSet, format string, args ...any) error {
	return &UsageError{
		flags: flags,
		msg:   fmt.Sprintf(format, args...),
	}
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.TraceFormat = strings.ToLower(opts.TraceFormat)
	opts.ResultFormat = strings.ToLower(opts.ResultFormat)

	validFormats := []string{options.FormatJSON, options.FormatCBOR}
	for _, format := range []string{opts.TraceFormat, opts.ResultFormat} {
		if format != "" && !contains(validFormats, format) {
			return fmt.Errorf("unsupported output format: %s. Valid options: %s",
				format, strings.Join(validFormats, ", "))
		}
	}

	if opts.AssembleTest && opts.Mode != options.ModeAssemble {
		return fmt.Errorf("option -verify is only supported in %s mode", options.ModeAssemble)
	}
	return nil
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// applyConfig copies config file values into the options unless the
// matching flag was passed explicitly.
func applyConfig(opts *options.Program, disasmOptions *options.Disassembler, cfg *config.File, set map[string]bool) {
	if !set["debug"] && cfg.Log.Debug {
		opts.Debug = true
	}
	if !set["q"] && cfg.Log.Quiet {
		opts.Quiet = true
	}
	if !set["trace-format"] && cfg.Trace.Format != "" {
		opts.TraceFormat = cfg.Trace.Format
	}
	if !set["result-format"] && cfg.Result.Format != "" {
		opts.ResultFormat = cfg.Result.Format
	}
	if cfg.Listing.HexComments != nil {
		disasmOptions.HexComments = *cfg.Listing.HexComments
	}
	if cfg.Listing.OffsetComments != nil {
		disasmOptions.OffsetComments = *cfg.Listing.OffsetComments
	}
}

func setFlags(flags *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Config, "c", "", "name of an optional uvm.toml config file")
	flags.StringVar(&opts.TraceFormat, "trace-format", "", "format of the assembler trace file (json/cbor), detected from the file extension if not set")
	flags.StringVar(&opts.ResultFormat, "result-format", "", "format of the interpreter result file (json/cbor), detected from the file extension if not set")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.AssembleTest, "verify", false, "verify the assembled binary by disassembling and reassembling it")
}

func readDisasmOptionFlags(flags *flag.FlagSet) (*bool, *bool) {
	noHexComments := flags.Bool("nohexcomments", false, "do not output record bytes as hex values in listing comments")
	noOffsets := flags.Bool("nooffsets", false, "do not output offsets in listing comments")
	return noHexComments, noOffsets
}

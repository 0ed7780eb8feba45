package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"grunt/grunt"
	"grunt/validator"

	"github.com/rs/zerolog"
	"gopkg.in/urfave/cli.v1"
)

var (
	imageFlag = cli.StringFlag{
		Name:  "image",
		Usage: "path to the binary table image to validate",
	}
	entriesFlag = cli.StringFlag{
		Name:  "entries",
		Usage: "comma-separated parm_id:low:high entries, used instead of --image",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "set the log level to debug (every emitted event is logged with or without it)",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "gruntvalidate"
	app.Usage = "run the Grunt table-validation program against a table image"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{imageFlag, entriesFlag, verboseFlag}
	app.Action = runValidate

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gruntvalidate:", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func runValidate(c *cli.Context) error {
	log := newLogger(c.Bool(verboseFlag.Name))

	image, err := loadImage(c)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	sink := validator.NewZerologSink(log)
	v, err := validator.NewValidator(validator.NewInMemoryRegistry(), sink)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("assembling validator program: %v", err), 1)
	}

	valid, status := v.ValidateBytes(image)
	if status != grunt.HaltTrue && status != grunt.HaltFalse {
		return cli.NewExitError(fmt.Sprintf("validator program faulted: %s", status), 1)
	}

	if !valid {
		return cli.NewExitError("table image is invalid", 1)
	}
	return nil
}

// loadImage resolves the table image from either --image or --entries,
// the latter a convenience for exercising the validator without first
// hand-assembling a binary file.
func loadImage(c *cli.Context) ([]byte, error) {
	if path := c.String(imageFlag.Name); path != "" {
		return os.ReadFile(path)
	}
	if spec := c.String(entriesFlag.Name); spec != "" {
		return parseEntries(spec)
	}
	return nil, fmt.Errorf("one of --image or --entries is required")
}

// parseEntries decodes a comma-separated list of parm_id:low:high triples
// (decimal or 0x-prefixed hex) into a binary table image, padding any
// entry short of validator.EntryCount with zeroed (unused) entries.
func parseEntries(spec string) ([]byte, error) {
	fields := strings.Split(spec, ",")
	if len(fields) > validator.EntryCount {
		return nil, fmt.Errorf("too many entries: got %d, table holds %d", len(fields), validator.EntryCount)
	}

	out := make([]byte, 0, validator.ImageSize)
	for _, field := range fields {
		parts := strings.Split(field, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed entry %q, want parm_id:low:high", field)
		}
		parmID, err := strconv.ParseUint(parts[0], 0, 8)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", field, err)
		}
		low, err := strconv.ParseUint(parts[1], 0, 32)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", field, err)
		}
		high, err := strconv.ParseUint(parts[2], 0, 32)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", field, err)
		}

		entry := make([]byte, validator.EntrySize)
		entry[0] = byte(parmID)
		binary.NativeEndian.PutUint32(entry[4:8], uint32(low))
		binary.NativeEndian.PutUint32(entry[8:12], uint32(high))
		out = append(out, entry...)
	}

	for len(out) < validator.ImageSize {
		out = append(out, make([]byte, validator.EntrySize)...)
	}
	return out, nil
}

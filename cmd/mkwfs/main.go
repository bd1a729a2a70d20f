// Command mkwfs formats a disk image file with a fresh wfs filesystem.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/samadasyed/filesystem/internal/mmapfile"
	"github.com/samadasyed/filesystem/wfs"
)

// Exit code the formatter uses for any argument error: duplicate flags, a
// missing flag, a flag with no value, an unknown flag, or a geometry that
// doesn't fit the target image.
const exitArgError = 200

// app's flags are declared only so cli.App prints decent --help output;
// actual parsing happens by hand in run, over the raw argument list, since
// the exit code contract (200 for any malformed invocation) doesn't match
// what cli.Flag's own validation produces.
func main() {
	code := 0
	app := &cli.App{
		Name:            "mkwfs",
		Usage:           "format a disk image with a fresh wfs filesystem",
		UsageText:       "mkwfs -d disk-image -i num-inodes -b num-blocks",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "d", Usage: "path of the pre-sized disk image"},
			&cli.StringFlag{Name: "i", Usage: "number of inodes (rounded up to a multiple of 32)"},
			&cli.StringFlag{Name: "b", Usage: "number of data blocks (rounded up to a multiple of 32)"},
		},
		Action: func(c *cli.Context) error {
			code = run(os.Args[1:])
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "mkwfs: %s\n", err)
		os.Exit(exitArgError)
	}
	os.Exit(code)
}

func run(args []string) int {
	var diskPath string
	var numInodes, numDataBlocks uint32
	var haveDisk, haveInodes, haveBlocks bool

	i := 0
	for i < len(args) {
		arg := args[i]
		var flag string
		var value string
		var haveValue bool

		switch arg {
		case "-d", "-i", "-b":
			flag = arg
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "mkwfs: %s requires a value\n", flag)
				return exitArgError
			}
			value = args[i+1]
			haveValue = true
			i += 2
		default:
			fmt.Fprintf(os.Stderr, "mkwfs: unknown argument %q\n", arg)
			return exitArgError
		}

		if !haveValue {
			return exitArgError
		}

		switch flag {
		case "-d":
			if haveDisk {
				fmt.Fprintln(os.Stderr, "mkwfs: -d given more than once")
				return exitArgError
			}
			diskPath = value
			haveDisk = true
		case "-i":
			if haveInodes {
				fmt.Fprintln(os.Stderr, "mkwfs: -i given more than once")
				return exitArgError
			}
			n, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				fmt.Fprintf(os.Stderr, "mkwfs: invalid inode count %q\n", value)
				return exitArgError
			}
			numInodes = uint32(n)
			haveInodes = true
		case "-b":
			if haveBlocks {
				fmt.Fprintln(os.Stderr, "mkwfs: -b given more than once")
				return exitArgError
			}
			n, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				fmt.Fprintf(os.Stderr, "mkwfs: invalid data block count %q\n", value)
				return exitArgError
			}
			numDataBlocks = uint32(n)
			haveBlocks = true
		}
	}

	if !haveDisk || !haveInodes || !haveBlocks {
		fmt.Fprintln(os.Stderr, "mkwfs: usage: mkwfs -d disk-image -i num-inodes -b num-blocks")
		return exitArgError
	}

	mf, err := mmapfile.Open(diskPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mkwfs: %s: %s\n", diskPath, err)
		return exitArgError
	}
	defer mf.Close()

	_, err = wfs.Format(mf.Bytes(), numInodes, numDataBlocks, uint32(os.Getuid()), uint32(os.Getgid()), time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "mkwfs: %s\n", err)
		return exitArgError
	}

	if err := mf.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "mkwfs: sync: %s\n", err)
		return exitArgError
	}

	return 0
}

// Command wfsmount mounts a wfs disk image as a FUSE filesystem.
package main

import (
	"fmt"
	"os"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/urfave/cli/v2"

	"github.com/samadasyed/filesystem/internal/fusefs"
	"github.com/samadasyed/filesystem/internal/mmapfile"
	"github.com/samadasyed/filesystem/wfs"
)

// exitMissingImage is returned when no disk image path is given, matching
// the driver's documented exit code for a malformed invocation.
const exitMissingImage = 69

func main() {
	code := 0
	app := &cli.App{
		Name:      "wfsmount",
		Usage:     "mount a wfs disk image",
		UsageText: "wfsmount <image> [mountpoint]",
		Action: func(c *cli.Context) error {
			code = run(c.Args().Slice())
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "wfsmount: %s\n", err)
		os.Exit(exitMissingImage)
	}
	os.Exit(code)
}

func run(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "wfsmount: usage: wfsmount <image> [mountpoint]")
		return exitMissingImage
	}
	imagePath := args[0]

	mountpoint := imagePath + ".mnt"
	if len(args) >= 2 {
		mountpoint = args[1]
	}

	mf, err := mmapfile.Open(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfsmount: %s: %s\n", imagePath, err)
		return 1
	}
	defer mf.Close()

	img, err := wfs.Open(mf.Bytes())
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfsmount: %s: %s\n", imagePath, err)
		return 1
	}

	root := fusefs.Root(img)
	server, err := fs.Mount(mountpoint, root, &fs.Options{
		MountOptions: fuse.MountOptions{SingleThreaded: true},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfsmount: mount failed: %s\n", err)
		return 1
	}

	server.Wait()
	return 0
}

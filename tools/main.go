// Command tools converts a GeoJSON or shapefile map extract into a printable
// STL, optionally with a JSON manifest next to it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/godeepar/mapmesh/logger"
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	logger.Sync()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	in       string
	config   string
	out      string
	manifest bool
	sample   bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("tools", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&o.in, "in", "", "input map, .geojson/.json or .shp")
	fs.StringVar(&o.config, "config", "", "YAML config, defaults when empty")
	fs.StringVar(&o.out, "out", "", "output STL, the input name with .stl when empty")
	fs.BoolVar(&o.manifest, "manifest", false, "write a JSON manifest next to the STL")
	fs.BoolVar(&o.sample, "sample", false, "write the sample GeoJSON to -in first")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.in == "" {
		return o, errors.New("-in is required")
	}
	return o, nil
}

func run(args []string, stdout io.Writer) error {
	o, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}
	if o.sample {
		if err := writeSample(o.in); err != nil {
			return err
		}
	}
	return convertFile(o, stdout)
}

package main

import (
	"encoding/json"
	"os"

	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/feedbouncer/pkg/config"
)

type opts struct {
	Out string `short:"o" long:"out" default:"schema.json" description:"output file, - for stdout"`
}

func main() {
	var o opts
	args, err := flags.Parse(&o)
	if err != nil {
		os.Exit(1)
	}
	if len(args) > 0 {
		o.Out = args[0] // positional form used by go:generate
	}

	if err := write(o.Out); err != nil {
		lgr.Fatalf("[ERROR] %v", err)
	}
	if o.Out != "-" {
		lgr.Printf("[INFO] config schema written to %s", o.Out)
	}
}

func write(out string) error {
	schema, err := config.GenerateSchema()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if out == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644) //nolint:gosec // schema is public
}

// objm loads an objmodel.toml manifest, declares its classes and traits,
// and reports the resulting inheritance graph.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/objmodel/lib/platform"
	"github.com/chazu/objmodel/lib/runtime"
	"github.com/chazu/objmodel/manifest"
)

var log = commonlog.GetLogger("objmodel.cli")

type options struct {
	config   string
	verbose  int
	jsonOut  string
	cborOut  string
	newClass string
	args     string
}

func main() {
	var opts options
	flag.StringVar(&opts.config, "config", "", "Manifest file (default: search upward for objmodel.toml)")
	flag.IntVar(&opts.verbose, "v", 0, "Log verbosity (overrides [log] verbosity)")
	flag.StringVar(&opts.jsonOut, "json", "", "Write a JSON snapshot of the registry to this file")
	flag.StringVar(&opts.cborOut, "cbor", "", "Write a CBOR snapshot of the registry to this file")
	flag.StringVar(&opts.newClass, "new", "", "Instantiate and delete this class, printing the trace")
	flag.StringVar(&opts.args, "args", "", "Comma-separated constructor arguments for -new")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: objm [options]\n\n")
		fmt.Fprintf(os.Stderr, "Declares the classes and traits of an objmodel.toml manifest and prints\n")
		fmt.Fprintf(os.Stderr, "each definition with its construction and destruction order.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  objm                              # Use ./objmodel.toml or a parent's\n")
		fmt.Fprintf(os.Stderr, "  objm -config app.toml -json g.json  # Export the graph\n")
		fmt.Fprintf(os.Stderr, "  objm -new App::Point -args 1,2    # Trace construction\n")
	}
	flag.Parse()

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, out io.Writer) error {
	m, err := loadManifest(opts.config)
	if err != nil {
		return err
	}

	if opts.verbose > 0 {
		m.Log.Verbosity = opts.verbose
	}
	m.ConfigureLogging()

	reg, err := m.NewRegistry()
	if err != nil {
		return err
	}
	trace := func(event string) { fmt.Fprintf(out, "  %s\n", event) }
	if err := m.Apply(reg, trace); err != nil {
		return err
	}

	snap := reg.Describe()
	printSnapshot(out, snap)

	if opts.newClass != "" {
		fmt.Fprintf(out, "\n%s\n", opts.newClass)
		inst, err := reg.Instantiate(opts.newClass, parseArgs(opts.args)...)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  instance %s\n", inst.ID)
		if err := reg.Delete(inst); err != nil {
			return err
		}
	}

	if opts.jsonOut != "" {
		data, err := runtime.MarshalSnapshotJSON(snap)
		if err != nil {
			return err
		}
		if err := platform.WriteFile(opts.jsonOut, data); err != nil {
			return err
		}
	}
	if opts.cborOut != "" {
		data, err := runtime.MarshalSnapshot(snap)
		if err != nil {
			return err
		}
		if err := platform.WriteFile(opts.cborOut, data); err != nil {
			return err
		}
	}
	return nil
}

func loadManifest(path string) (*manifest.Manifest, error) {
	if path != "" {
		return manifest.LoadFile(path)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, err := manifest.FindAndLoad(cwd)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("no %s found in %s or its parents", manifest.FileName, cwd)
	}
	return m, nil
}

func printSnapshot(out io.Writer, snap *runtime.Snapshot) {
	for _, d := range snap.Definitions {
		fmt.Fprintf(out, "%s %s", d.Kind, d.Name)
		if len(d.Supers) > 0 {
			fmt.Fprintf(out, " < %s", strings.Join(d.Supers, ", "))
		}
		fmt.Fprintln(out)
		if len(d.Fields) > 0 {
			fmt.Fprintf(out, "  fields:       %s\n", strings.Join(d.Fields, " "))
		}
		if d.Kind == runtime.KindClass.String() {
			fmt.Fprintf(out, "  construction: %s\n", orNone(d.Construction))
		}
		fmt.Fprintf(out, "  destruction:  %s\n", orNone(d.Destruction))
		if d.Error != "" {
			fmt.Fprintf(out, "  error:        %s\n", d.Error)
		}
	}
	log.Infof("described %d definitions", len(snap.Definitions))
}

func orNone(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, " -> ")
}

// parseArgs turns "1,2.5,true,name" into typed values.
func parseArgs(s string) []runtime.Value {
	if s == "" {
		return nil
	}
	var vals []runtime.Value
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if n, err := strconv.ParseInt(part, 10, 64); err == nil {
			vals = append(vals, runtime.IntValue(n))
		} else if f, err := strconv.ParseFloat(part, 64); err == nil {
			vals = append(vals, runtime.FloatValue(f))
		} else if b, err := strconv.ParseBool(part); err == nil {
			vals = append(vals, runtime.BoolValue(b))
		} else {
			vals = append(vals, runtime.StringValue(part))
		}
	}
	return vals
}

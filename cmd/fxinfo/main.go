// Command fxinfo describes the available effect kernels and the host's
// SIMD support.
//
// Usage:
//
//	fxinfo [flags] [kernel-name ...]
//
// Without arguments it describes every kernel.
//
// Examples:
//
//	fxinfo
//	fxinfo drc delays
//	fxinfo -list
//	fxinfo -cpu
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/algo-fxlab/dsp/kernel"
	"github.com/cwbudde/algo-fxlab/dsp/oversample"
)

func main() {
	list := flag.Bool("list", false, "list kernel names")
	showCPU := flag.Bool("cpu", false, "show detected CPU features and the oversampling backend")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fxinfo [flags] [kernel-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the parameters and properties of effect kernels.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, describes all kernels.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fxinfo drc delays\n")
		fmt.Fprintf(os.Stderr, "  fxinfo -list\n")
		fmt.Fprintf(os.Stderr, "  fxinfo -cpu\n")
	}
	flag.Parse()

	reg := kernel.DefaultRegistry()

	if *list {
		for _, n := range reg.Names() {
			fmt.Println(n)
		}
		return
	}

	if *showCPU {
		if err := printCPU(os.Stdout, cpu.DetectFeatures(), oversample.Backend()); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	names := flag.Args()
	if len(names) == 0 {
		names = reg.Names()
	}

	descs := resolve(reg, names)
	if len(descs) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching kernels\n")
		os.Exit(1)
	}

	if err := printKernels(os.Stdout, descs); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func resolve(reg *kernel.Registry, names []string) []kernel.Description {
	ctx := kernel.NewContext()

	var result []kernel.Description
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		k, err := reg.New(name, ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v (use -list to see available)\n", err)
			continue
		}
		result = append(result, k.Describe())
	}
	return result
}

func printKernels(w io.Writer, descs []kernel.Description) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for i, d := range descs {
		if i > 0 {
			if _, err := fmt.Fprintln(tw); err != nil {
				return err
			}
		}

		kind := "effect"
		if d.Source {
			kind = "source"
		}
		props := "-"
		if len(d.Properties) > 0 {
			props = strings.Join(d.Properties, ", ")
		}
		if _, err := fmt.Fprintf(tw, "%s (%s)\nproperties: %s\n", d.Name, kind, props); err != nil {
			return err
		}

		if len(d.Parameters) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(tw, "  Parameter\tDefault\tMin\tMax\n"); err != nil {
			return err
		}
		for _, p := range d.Parameters {
			if _, err := fmt.Fprintf(tw, "  %s\t%g\t%g\t%g\n", p.Name, p.Default, p.Min, p.Max); err != nil {
				return err
			}
		}
	}

	return tw.Flush()
}

func printCPU(w io.Writer, f cpu.Features, backend string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		name string
		ok   bool
	}{
		{"SSE2", f.HasSSE2},
		{"AVX", f.HasAVX},
		{"AVX2", f.HasAVX2},
		{"AVX-512", f.HasAVX512},
		{"NEON", f.HasNEON},
	}

	if _, err := fmt.Fprintf(tw, "Architecture\t%s\n", f.Architecture); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%v\n", r.name, r.ok); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(tw, "Oversampling backend\t%s\n", backend); err != nil {
		return err
	}

	return tw.Flush()
}

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	fractal "github.com/marben/fractal_engine"
	"github.com/marben/fractal_engine/palette"
)

// printCatalog lists everything that can be selected by name.
func printCatalog(w io.Writer, reg *fractal.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "ALGORITHM\tCATEGORY\tNAME\tDESCRIPTION")
	for _, info := range reg.Algorithms() {
		id := info.ID
		if id == reg.DefaultID() {
			id += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, info.Category, info.Name, info.Description)
	}

	fmt.Fprintln(tw, "\nPALETTE\tCONTROL COLOURS")
	for _, name := range palette.Names() {
		ctrl, _ := palette.Controls(name)
		hex := make([]string, len(ctrl))
		for i, c := range ctrl {
			hex[i] = c.Hex()
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(hex, " "))
	}

	fmt.Fprintln(tw, "\nJULIA PRESET\tC")
	for _, p := range fractal.JuliaPresets {
		fmt.Fprintf(tw, "%s\t%g%+gi\n", p.Name, p.C.Real, p.C.Imag)
	}

	fmt.Fprintln(tw, "\nREGION\tREAL\tIMAGINARY")
	for _, name := range fractal.RegionNames() {
		r := fractal.Regions[name]
		fmt.Fprintf(tw, "%s\t[%g, %g]\t[%g, %g]\n", name, r.Xmin, r.Xmax, r.Ymin, r.Ymax)
	}
	return tw.Flush()
}

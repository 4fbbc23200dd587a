package main

import (
	"sort"

	"github.com/beka-birhanu/vinom-sweeper/game/topology"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Describe a board shape",
	Long: `Topology prints the cell count and neighbour degrees of a board shape.
Geodesic shapes also report their vertex, edge and face counts.

Example:
  sweepctl topology --preset expert
  sweepctl topology --kind geodesic --frequency 5 --skew 2 --tiling hex`,
	Args: cobra.NoArgs,
	RunE: runTopology,
}

func init() {
	addTopologyFlags(topologyCmd)
}

func runTopology(cmd *cobra.Command, args []string) error {
	p, err := selectedPreset()
	if err != nil {
		return err
	}
	t, err := topology.New(p.Topology)
	if err != nil {
		return err
	}

	out := message.NewPrinter(language.English)
	w := cmd.OutOrStdout()

	degrees := make(map[int]int)
	t.ForEach(func(pos topology.Position) {
		degrees[len(t.Adjacent(pos))]++
	})
	keys := lo.Keys(degrees)
	sort.Ints(keys)

	out.Fprintf(w, "shape   %s\n", p.Topology)
	out.Fprintf(w, "cells   %d\n", t.NumCells())
	for _, d := range keys {
		out.Fprintf(w, "degree %2d: %d cells\n", d, degrees[d])
	}

	if g, ok := t.(*topology.Geodesic); ok {
		s := g.Stats()
		out.Fprintf(w, "vertices %d\nedges    %d\nfaces    %d\neuler    %d\n", s.Vertices, s.Edges, s.Faces, s.Euler())
		if g.Tiling() == topology.TilingHex {
			out.Fprintf(w, "pentagons %d\n", len(g.Pentagons()))
		}
	}
	return nil
}

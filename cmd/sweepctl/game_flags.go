package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/beka-birhanu/vinom-sweeper/game"
	"github.com/beka-birhanu/vinom-sweeper/game/presets"
	"github.com/beka-birhanu/vinom-sweeper/game/topology"
	"github.com/spf13/cobra"
)

// addTopologyFlags registers the flags describing a board shape.
func addTopologyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(keyPreset, "", "named preset, overrides the shape flags")
	f.String(keyKind, string(topology.KindGrid), "grid, torus, hex, cube_surface, cube_volume or geodesic")
	f.Int(keyWidth, 9, "width")
	f.Int(keyHeight, 9, "height")
	f.Int(keyDepth, 3, "depth of cubes")
	f.Int(keyRadius, 0, "neighbourhood radius of grids and tori")
	f.Int(keyFrequency, 3, "geodesic frequency")
	f.Int(keySkew, 0, "geodesic skew")
	f.String(keyTiling, string(topology.TilingHex), "geodesic tiling: hex or triangle")
}

// addGameFlags registers the shape flags plus mining and randomness.
func addGameFlags(cmd *cobra.Command) {
	addTopologyFlags(cmd)
	f := cmd.Flags()
	f.Int(keyMines, 10, "number of mines")
	f.Float64(keyMineProb, 0, "mine probability per cell, replaces --mines when set")
	f.Int64(keySeed, 0, "random seed, 0 picks one")
}

func catalog() (*presets.Catalog, error) {
	file := cfg.GetString(keyPresetFile)
	if file == "" {
		return presets.Builtin(), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return presets.Parse(data)
}

// selectedPreset resolves --preset, or describes the shape flags as an
// unnamed preset.
func selectedPreset() (presets.Preset, error) {
	if name := cfg.GetString(keyPreset); name != "" {
		c, err := catalog()
		if err != nil {
			return presets.Preset{}, err
		}
		return c.Get(name)
	}

	p := presets.Preset{
		Topology: topology.Spec{
			Kind:      topology.Kind(cfg.GetString(keyKind)),
			Width:     cfg.GetInt(keyWidth),
			Height:    cfg.GetInt(keyHeight),
			Depth:     cfg.GetInt(keyDepth),
			Radius:    cfg.GetInt(keyRadius),
			Frequency: cfg.GetInt(keyFrequency),
			Skew:      cfg.GetInt(keySkew),
			Tiling:    topology.Tiling(cfg.GetString(keyTiling)),
		},
	}
	if prob := cfg.GetFloat64(keyMineProb); prob > 0 {
		p.MineProb = prob
	} else {
		p.Mines = cfg.GetInt(keyMines)
	}
	return p, nil
}

func newSession() (*game.Session, error) {
	p, err := selectedPreset()
	if err != nil {
		return nil, err
	}
	t, err := topology.New(p.Topology)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Topology, err)
	}

	c := game.Config{Preset: p.Name, Topology: t, Mines: p.Mines, MineProb: p.MineProb}
	if seed := cfg.GetInt64(keySeed); seed != 0 {
		c.Rand = rand.New(rand.NewSource(seed))
	}
	return game.NewSession(c)
}

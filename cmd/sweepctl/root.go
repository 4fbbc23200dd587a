package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "SWEEP"
	configFileName = "sweepctl"
	configFileType = "yaml"

	keyPreset     = "preset"
	keyKind       = "kind"
	keyWidth      = "width"
	keyHeight     = "height"
	keyDepth      = "depth"
	keyRadius     = "radius"
	keyFrequency  = "frequency"
	keySkew       = "skew"
	keyTiling     = "tiling"
	keyMines      = "mines"
	keyMineProb   = "mine-prob"
	keySeed       = "seed"
	keySolverURL  = "solver-url"
	keyPresetFile = "presets"
)

var (
	flagConfig string

	// cfg merges flags, SWEEP_* variables and the config file, in that order.
	cfg *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:           "sweepctl",
	Short:         "Minesweeper on grids, tori, hexes, cubes and geodesic spheres",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		cfg = v
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./sweepctl.yaml)")
	rootCmd.PersistentFlags().String(keyPresetFile, "", "YAML file replacing the built in presets")

	rootCmd.AddCommand(topologyCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(presetsCmd)
}

func loadConfig(file string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && file == "" {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

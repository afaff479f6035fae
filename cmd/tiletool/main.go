// tiletool is a CLI utility for generating and inspecting height tile lattices.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "gen", "generate":
		cmdGen(args)
	case "info":
		cmdInfo(args)
	case "sample":
		cmdSample(args)
	case "chunks":
		cmdChunks(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tiletool - height tile lattice utility

Usage:
  tiletool <command> [options]

Commands:
  gen [-out dir] [-zstd] [-color]    Write a synthetic seam-continuous lattice
  info                               Validate every tile of the lattice
  sample <x> <z>                     Query height and normal at a world point
  chunks <x> <z> [y]                 Print the desired chunk set for a viewpoint

Common options:
  -config <file>                     Config file (default: terrain.yaml lookup)
  -tiles <dir>                       Height tile folder override

Examples:
  tiletool gen -out tiles -zstd -save-config terrain.yaml
  tiletool info -config terrain.yaml
  tiletool sample 2048 2048
  tiletool chunks -passes 20 2048 2048 300`)
}

// loadConfig loads the tool configuration and sets up logging.
func loadConfig(path, tiles string) *config.Config {
	cfg, err := config.LoadFile(path)
	if err != nil {
		fatalf("Config error: %v", err)
	}
	if tiles != "" {
		cfg.Terrain.TileFolder = tiles
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fatalf("Logger error: %v", err)
	}
	return cfg
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	logger.Sync()
	os.Exit(1)
}

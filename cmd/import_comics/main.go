// Command import_comics seeds the comic catalog with a starter list or the
// entries of a YAML seed file, skipping titles that are already present.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"comic-collector/config"
	"comic-collector/library"
	"comic-collector/logging"
)

func main() {
	configFile := pflag.String("config", "", "config file")
	seedFile := pflag.StringP("file", "f", "", "YAML seed file (default: built-in starter catalog)")
	pflag.Parse()

	v, err := config.New(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level, logCfg.Format, logCfg.Output = cfg.LogLevel, cfg.LogFormat, cfg.LogOutput
	log := logging.New(logCfg)

	seed := starterCatalog
	if *seedFile != "" {
		if seed, err = loadSeed(*seedFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	mgr := library.NewLibraryManager(cfg.ComicsPath(), cfg.UsersPath(), log)
	fmt.Printf("Importing %d comics into %s...\n", len(seed), cfg.ComicsPath())

	res := importComics(mgr, seed, func(format string, args ...any) { fmt.Printf(format, args...) })

	if res.Added > 0 {
		if err := mgr.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving catalog: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Imported: %d, skipped: %d, errors: %d\n", res.Added, res.Skipped, res.Failed)
}

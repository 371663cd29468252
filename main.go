package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"comic-collector/config"
	"comic-collector/library"
	"comic-collector/logging"
	"comic-collector/output"
)

// app carries what every command needs once flags and config are resolved.
type app struct {
	configFile string

	in  io.Reader
	out io.Writer

	v   *viper.Viper
	cfg *config.Config
	log zerolog.Logger
	mgr *library.LibraryManager
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:   "comic-collector",
		Short: "Comic lending library catalog",
		Long: `comic-collector keeps a catalog of comics and registered users in two
pipe-delimited files and lends comics to users.

Run without a subcommand for the interactive menu.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runMenu,
	}
	root.SetIn(in)
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default is ./.comicstore.yaml or $HOME/.comicstore.yaml)")
	pf.String("data-dir", "", "directory holding the catalog files")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.StringP("output", "o", "", "output format for listings (table, json, yaml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "menu",
			Short: "Run the interactive menu",
			Args:  cobra.NoArgs,
			RunE:  a.runMenu,
		},
		a.comicsCmd(),
		a.usersCmd(),
		a.exportCmd(),
		a.restoreCmd(),
	)
	return root
}

// setup resolves config, builds the logger and opens the catalog.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v, err := config.New(a.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"data_dir":  "data-dir",
		"log_level": "log-level",
		"output":    "output",
	} {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind %s: %w", flag, err)
			}
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.v, a.cfg = v, cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	logCfg.Output = cfg.LogOutput
	a.log = logging.New(logCfg)

	a.mgr = library.NewLibraryManager(cfg.ComicsPath(), cfg.UsersPath(), a.log)
	a.log.Debug().Str("comics", cfg.ComicsPath()).Str("users", cfg.UsersPath()).Msg("catalog opened")
	return nil
}

func (a *app) runMenu(cmd *cobra.Command, _ []string) error {
	banner := false
	if f, ok := a.in.(*os.File); ok {
		banner = term.IsTerminal(int(f.Fd()))
	}
	m := newMenu(a.in, a.out, a.mgr, banner)

	type result struct {
		saved bool
		err   error
	}
	done := make(chan result, 1)
	go func() {
		saved, err := m.Run()
		done <- result{saved, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			a.log.Error().Err(r.err).Msg("menu save failed")
		}
		return r.err
	case <-cmd.Context().Done():
		if m.saving.Load() {
			r := <-done
			return r.err
		}
		fmt.Fprintln(a.out, "\nInterrupted, leaving without saving.")
		return nil
	}
}

// render writes data in the configured output format.
func (a *app) render(data any) error {
	format, err := output.ParseFormat(a.cfg.Output)
	if err != nil {
		return err
	}
	return output.NewFormatter(format).Format(a.out, data)
}

// save persists the catalog after a mutating command.
func (a *app) save() error {
	if err := a.mgr.Save(); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

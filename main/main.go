// Command serialfield reads and writes single fields of serialized records.
//
//	serialfield get y --file point.txt
//	serialfield set z '"hi"' < point.txt
//	serialfield fields --scope public < record.txt
package main

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/serialfield"
	"github.com/rawbytedev/serialfield/internal/config"
	"github.com/rawbytedev/serialfield/pkg/codec"
)

type app struct {
	configPath string
	file       string
	scope      string
	owner      string
	raw        bool
	verbose    bool
	memProfile string

	opts   serialfield.Options
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "serialfield",
		Short: "Read and write fields of serialized records",
		Long: `serialfield reads one field of a serialized object or array record,
or appends one, without rebuilding the value it was made from. Private
and protected fields are addressed with --scope and --owner.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
			return a.writeProfile()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML or TOML config file")
	pf.StringVarP(&a.file, "file", "f", "", "read the record from this file instead of stdin")
	pf.StringVar(&a.scope, "scope", "", "field scope: private, protected or public")
	pf.StringVar(&a.owner, "owner", "", "type a private field is keyed to (default: the record's type)")
	pf.BoolVar(&a.raw, "raw", false, "print encoded tokens instead of decoded values")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&a.memProfile, "memprofile", "", "write a heap profile to this file")

	root.AddCommand(
		&cobra.Command{
			Use:   "get FIELD",
			Short: "Print the value of a field",
			Args:  cobra.ExactArgs(1),
			RunE:  a.get,
		},
		&cobra.Command{
			Use:   "set FIELD VALUE",
			Short: "Append a field and print the new record",
			Long: `Appends FIELD with VALUE to the record and prints the new record.
VALUE is parsed as YAML: 42, 1.5, true, null, "text", [1, 2] and {k: v}
all work. Earlier entries for the same field are kept; readers see the
last one.`,
			Args: cobra.ExactArgs(2),
			RunE: a.set,
		},
		&cobra.Command{
			Use:   "fields",
			Short: "List the entries of a record",
			Args:  cobra.NoArgs,
			RunE:  a.fields,
		},
	)
	return root
}

// setup merges the config file with the flags that were set explicitly.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("scope") {
		cfg.Scope = a.scope
	}
	if flags.Changed("owner") {
		cfg.Owner = a.owner
	}
	if flags.Changed("raw") {
		cfg.Raw = a.raw
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if a.opts, err = cfg.Options(); err != nil {
		return err
	}
	a.logger, err = cfg.Logging.Build(a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger.Debug("options resolved",
		zap.Stringer("scope", a.opts.Scope),
		zap.String("owner", a.opts.Owner),
		zap.Bool("raw", a.opts.OutputEncoded))
	return nil
}

func (a *app) accessor() *serialfield.Accessor {
	return serialfield.New(serialfield.WithLogger(a.logger))
}

func (a *app) readRecord(cmd *cobra.Command) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if a.file != "" {
		f, err := os.Open(a.file)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	// records end in '}', so a trailing newline is never part of one
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (a *app) get(cmd *cobra.Command, args []string) error {
	rec, err := a.readRecord(cmd)
	if err != nil {
		return err
	}
	v, err := a.accessor().Get(rec, args[0], a.opts)
	if err != nil {
		return err
	}
	if a.opts.OutputEncoded {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
		return err
	}
	return printYAML(cmd.OutOrStdout(), codec.Plain(v))
}

func (a *app) set(cmd *cobra.Command, args []string) error {
	rec, err := a.readRecord(cmd)
	if err != nil {
		return err
	}
	var value any
	if err := yaml.Unmarshal([]byte(args[1]), &value); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	opts := a.opts
	opts.OutputEncoded = true
	out, err := a.accessor().Set(rec, args[0], value, opts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func (a *app) fields(cmd *cobra.Command, args []string) error {
	rec, err := a.readRecord(cmd)
	if err != nil {
		return err
	}
	fields, err := a.accessor().Fields(rec, a.opts)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%-9s %s\t%s\n", f.Scope, f.Key, f.Value.Raw()); err != nil {
			return err
		}
	}
	return nil
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (a *app) writeProfile() error {
	if a.memProfile == "" {
		return nil
	}
	f, err := os.Create(a.memProfile)
	if err != nil {
		return err
	}
	defer f.Close()
	return pprof.WriteHeapProfile(f)
}

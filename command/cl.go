package command

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/8090Lambert/go-parsehelper/constants"
	"github.com/spf13/cobra"
)

// Options is the resolved invocation: flags merged over the config file.
type Options struct {
	Mod       int
	File      string
	Output    string
	Format    int
	Verbosity int
	NoColor   bool
	Truncated bool
}

func NewRootCommand(run func(opts Options) error) *cobra.Command {
	var (
		rdbFile     string
		aofFile     string
		output      string
		genFileType string
		configFile  string
		verbosity   int
		noColor     bool
		truncated   bool
	)

	cmd := &cobra.Command{
		Use:           app + " [file]",
		Short:         "Decode Redis RDB dumps and AOF files",
		Long:          banner(),
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configFile, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("output") {
				output = cfg.Output
			}
			if !flags.Changed("type") {
				genFileType = cfg.Type
			}
			if !flags.Changed("verbose") {
				verbosity = cfg.Verbosity
			}
			if !flags.Changed("no-color") {
				noColor = cfg.NoColor
			}
			if !flags.Changed("truncated") {
				truncated = cfg.Truncated
			}

			mod, file, err := Watch(rdbFile, aofFile, args)
			if err != nil {
				return err
			}
			format, ok := constants.Format(genFileType)
			if !ok {
				return fmt.Errorf("unknown gen-file type %q (support type: json, csv)", genFileType)
			}

			return run(Options{
				Mod:       mod,
				File:      file,
				Output:    output,
				Format:    format,
				Verbosity: verbosity,
				NoColor:   noColor,
				Truncated: truncated,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&rdbFile, "rdb", "", "<rdb-file-name>. For example: ./dump.rdb")
	flags.StringVar(&aofFile, "aof", "", "file.aof. For example: ./appendonly.aof")
	flags.StringVarP(&output, "output", "o", "", "set the output directory for gen-file, - for stdout. (default: current directory)")
	flags.StringVar(&genFileType, "type", "", "set the gen-file's type, support type: json, csv. (default: csv)")
	flags.StringVar(&configFile, "config", DefaultConfigFile, "config file")
	flags.CountVarP(&verbosity, "verbose", "v", "log verbosity, repeat for more")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&truncated, "truncated", false, "accept an AOF whose last command is incomplete")

	return cmd
}

// Watch picks the parser mode from the flags, or from the extension of a
// positional file.
func Watch(rdbFile, aofFile string, args []string) (mod int, file string, err error) {
	if len(args) > 0 {
		if rdbFile != "" || aofFile != "" {
			return constants.UNKNOWN, "", errors.New("give the file either as argument or with --rdb/--aof")
		}
		switch filepath.Ext(args[0]) {
		case ".rdb":
			return constants.RDBMOD, args[0], nil
		case ".aof":
			return constants.AOFMOD, args[0], nil
		}
		return constants.UNKNOWN, "", fmt.Errorf("cannot tell the file type of %s, use --rdb or --aof", args[0])
	}

	switch {
	case rdbFile != "" && aofFile != "":
		return constants.UNKNOWN, "", errors.New("--rdb and --aof are mutually exclusive")
	case rdbFile != "":
		return constants.RDBMOD, rdbFile, nil
	case aofFile != "":
		return constants.AOFMOD, aofFile, nil
	}
	return constants.UNKNOWN, "", errors.New("one of --rdb or --aof is required")
}

package boot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/8090Lambert/go-parsehelper/command"
	"github.com/8090Lambert/go-parsehelper/constants"
	"github.com/8090Lambert/go-parsehelper/generator"
	"github.com/8090Lambert/go-parsehelper/parse"
	"github.com/8090Lambert/go-parsehelper/protocol"
	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("go-redis-parser.boot")

func Boot() {
	if err := command.NewRootCommand(Run).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// Run parses the file named in opts, writes the gen-file and prints a
// summary of the keyspace.
func Run(opts command.Options) error {
	commonlog.Configure(opts.Verbosity, nil)
	color.NoColor = color.NoColor || opts.NoColor

	factory := parse.NewParserFactory(opts.Mod, parse.Options{AllowTruncated: opts.Truncated})
	if factory == nil {
		return fmt.Errorf("unknown parser mode %d", opts.Mod)
	}
	parser, err := factory(opts.File)
	if err != nil {
		return err
	}
	log.Infof("parsing %s", opts.File)
	if err := parser.Parse(); err != nil {
		if data, rerr := os.ReadFile(opts.File); rerr == nil {
			Diagnose(os.Stderr, data, err)
		}
		return fmt.Errorf("parse %s: %w", opts.File, err)
	}

	out, closeOut, err := openOutput(opts.Output, opts.Format)
	if err != nil {
		return err
	}
	defer closeOut()

	summary, err := Generate(out, opts.Format, parser.Entries())
	if err != nil {
		return err
	}
	summary.Print(os.Stdout)
	return nil
}

// Generate writes entries to w and gathers their summary at the same time.
func Generate(w io.Writer, format int, entries []protocol.TypeObject) (*generator.Summary, error) {
	putter, err := generator.NewPutter(w, format)
	if err != nil {
		return nil, err
	}
	summary := generator.NewSummary()

	var (
		wg     sync.WaitGroup
		putErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if putErr = putter.Put(entries...); putErr == nil {
			putErr = putter.Flush()
		}
	}()
	go func() {
		defer wg.Done()
		for _, e := range entries {
			summary.Add(e)
		}
	}()
	wg.Wait()

	if putErr != nil {
		return nil, putErr
	}
	return summary, nil
}

func openOutput(dir string, format int) (io.Writer, func(), error) {
	if dir == "-" {
		return os.Stdout, func() {}, nil
	}
	name := "parser.csv"
	if format == constants.FORMAT_JSON {
		name = "parser.json"
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create gen-file: %w", err)
	}
	log.Infof("writing %s", path)
	return f, func() {
		if err := f.Close(); err != nil {
			log.Errorf("close %s: %s", path, err)
		}
	}, nil
}

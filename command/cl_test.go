package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/8090Lambert/go-parsehelper/constants"
)

func TestWatch(t *testing.T) {
	tests := []struct {
		name    string
		rdb     string
		aof     string
		args    []string
		wantMod int
		wantErr bool
	}{
		{"rdb flag", "dump.rdb", "", nil, constants.RDBMOD, false},
		{"aof flag", "", "appendonly.aof", nil, constants.AOFMOD, false},
		{"rdb arg", "", "", []string{"x/dump.rdb"}, constants.RDBMOD, false},
		{"aof arg", "", "", []string{"appendonly.aof"}, constants.AOFMOD, false},
		{"both flags", "dump.rdb", "appendonly.aof", nil, constants.UNKNOWN, true},
		{"nothing", "", "", nil, constants.UNKNOWN, true},
		{"unknown extension", "", "", []string{"dump.bin"}, constants.UNKNOWN, true},
		{"flag and arg", "dump.rdb", "", []string{"dump.rdb"}, constants.UNKNOWN, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, _, err := Watch(tt.rdb, tt.aof, tt.args)
			if mod != tt.wantMod || (err != nil) != tt.wantErr {
				t.Errorf("Watch() = %d, %v, want %d, error %v", mod, err, tt.wantMod, tt.wantErr)
			}
		})
	}
}

func run(t *testing.T, args ...string) (Options, error) {
	t.Helper()
	var got Options
	cmd := NewRootCommand(func(opts Options) error {
		got = opts
		return nil
	})
	cmd.SetArgs(args)
	cmd.SetOut(new(strings.Builder))
	err := cmd.Execute()
	return got, err
}

func TestRootCommandFlags(t *testing.T) {
	_, err := run(t, "--rdb", "dump.rdb", "-o", "out", "--type", "json", "-vv", "--no-color",
		"--config", filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Execute() succeeded with a missing explicit config file")
	}

	opts, err := run(t, "--rdb", "dump.rdb", "-o", "out", "--type", "json", "-vv", "--no-color")
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	want := Options{Mod: constants.RDBMOD, File: "dump.rdb", Output: "out", Format: constants.FORMAT_JSON, Verbosity: 2, NoColor: true}
	if opts != want {
		t.Errorf("Options = %+v, want %+v", opts, want)
	}
}

func TestRootCommandConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parser.yaml")
	config := "output: from-config\ntype: json\nverbosity: 1\naof_load_truncated: true\n"
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := run(t, "--aof", "appendonly.aof", "--config", path, "-o", "from-flag")
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	want := Options{Mod: constants.AOFMOD, File: "appendonly.aof", Output: "from-flag", Format: constants.FORMAT_JSON, Verbosity: 1, Truncated: true}
	if opts != want {
		t.Errorf("Options = %+v, want %+v", opts, want)
	}
}

func TestRootCommandRejectsUnknownType(t *testing.T) {
	if _, err := run(t, "--rdb", "dump.rdb", "--type", "xml"); err == nil {
		t.Error("Execute() accepted --type xml")
	}
}

// End-to-end tests that exercise the full fairshare CLI by running the root
// command in-process with a temporary home. Output is captured via cobra's
// SetOut and SetErr so tests do not touch os.Stdout.
package rootcmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	rootcmd "github.com/go-ports/fairshare/cmd/fairshare/root"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// runCmd executes the root command with the provided args and returns the
// captured stdout and stderr along with any execution error.
func runCmd(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := rootcmd.New()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())

	return out.String(), errOut.String(), err
}

// ---------------------------------------------------------------------------
// Help and version
// ---------------------------------------------------------------------------

func TestHelp_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, _, err := runCmd(t, "--help")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "fairshare")
	c.Assert(out, qt.Contains, "split")
	c.Assert(out, qt.Contains, "--home")
}

func TestVersion_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, _, err := runCmd(t, "--home", t.TempDir(), "version")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "fairshare dev (commit unknown, built unknown)\n")
}

// ---------------------------------------------------------------------------
// Init
// ---------------------------------------------------------------------------

func TestInit_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := filepath.Join(t.TempDir(), "fs")
	out, _, err := runCmd(t, "--home", home, "init")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "fairshare initialized at "+home+" (store: sqlite)\n")

	_, statErr := os.Stat(filepath.Join(home, "fairshare.db"))
	c.Assert(statErr, qt.IsNil)
}

// ---------------------------------------------------------------------------
// Split
// ---------------------------------------------------------------------------

func TestSplit_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name  string
		args  []string
		wants []string
	}{
		{
			name:  "rounded by default",
			args:  []string{"--income1", "30", "--income2", "70", "--expense", "100"},
			wants: []string{"Person 1", "$30.00", "$70.00", "$100.00"},
		},
		{
			name:  "unrounded",
			args:  []string{"--income1", "1", "--income2", "2", "--expense", "10", "--round=false"},
			wants: []string{"$3.33", "$6.67"},
		},
		{
			name:  "zero share",
			args:  []string{"--income1", "0", "--income2", "100", "--expense", "50"},
			wants: []string{"$0.00", "$50.00"},
		},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			args := append([]string{"--home", c.TB.TempDir(), "split"}, tc.args...)
			out, _, err := runCmd(t, args...)
			c.Assert(err, qt.IsNil)
			for _, want := range tc.wants {
				c.Assert(out, qt.Contains, want)
			}
		})
	}
}

func TestSplit_RemembersLastValues(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	_, _, err := runCmd(t, "--home", home, "split", "--income1", "30", "--income2", "70", "--expense", "100")
	c.Assert(err, qt.IsNil)

	out, _, err := runCmd(t, "--home", home, "split", "--expense", "1000", "--round=false")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "$300.00")
	c.Assert(out, qt.Contains, "$700.00")

	out, _, err = runCmd(t, "--home", home, "last")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "income1: \"30\"\nincome2: \"70\"\nexpense: \"1000\"\nround: \"false\"\n")
}

func TestSplit_NoSave(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	_, _, err := runCmd(t, "--home", home, "split", "--income1", "30", "--income2", "70", "--expense", "100")
	c.Assert(err, qt.IsNil)

	out, _, err := runCmd(t, "--home", home, "split", "--expense", "50", "--no-save")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "$15.00")
	c.Assert(out, qt.Contains, "$35.00")

	out, _, err = runCmd(t, "--home", home, "last")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "expense: \"100\"")
}

func TestSplit_FailurePath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"negative income", []string{"--income1=-1", "--income2", "10", "--expense", "100"}, "income1: must not be negative"},
		{"expense too large", []string{"--income1", "10", "--income2", "10", "--expense", "2000000"}, "expense: must not exceed 1,000,000"},
		{"zero total income", []string{"--income1", "0", "--income2", "0", "--expense", "100"}, "totalIncome: combined income must be greater than zero"},
		{"nothing entered yet", nil, "income1: is required"},
		{"not a number", []string{"--income1", "lots", "--income2", "10", "--expense", "100"}, "income1: must be a number"},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			args := append([]string{"--home", c.TB.TempDir(), "split"}, tc.args...)
			out, errOut, err := runCmd(t, args...)
			c.Assert(err, qt.ErrorMatches, "split: invalid input")
			c.Assert(errOut, qt.Contains, tc.wantErr)
			c.Assert(out, qt.Equals, "")
		})
	}
}

func TestSplit_RejectsArguments(t *testing.T) {
	c := qt.New(t)

	_, _, err := runCmd(t, "--home", t.TempDir(), "split", "100")
	c.Assert(err, qt.IsNotNil)
}

// ---------------------------------------------------------------------------
// Last
// ---------------------------------------------------------------------------

func TestLast_Empty(t *testing.T) {
	c := qt.New(t)

	out, _, err := runCmd(t, "--home", t.TempDir(), "last")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "income1: \"\"\nincome2: \"\"\nexpense: \"\"\nround: \"\"\n")
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestConfig_InitAndShow(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	out, _, err := runCmd(t, "--home", home, "config", "init")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Created "+filepath.Join(home, "config.yaml"))

	out, _, err = runCmd(t, "--home", home, "config", "init")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Config already exists")

	out, _, err = runCmd(t, "--home", home, "config")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "driver: sqlite")
	c.Assert(out, qt.Contains, "addr: 127.0.0.1:8080")
	c.Assert(out, qt.Contains, "home_source: flag")
	c.Assert(out, qt.Contains, "split:\n  round: true\n")
	c.Assert(out, qt.Contains, "home: "+home+"\n")
}

func TestConfig_InvalidDriver(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	c.Assert(os.WriteFile(filepath.Join(home, "config.yaml"), []byte("store:\n  driver: mongo\n"), 0o600), qt.IsNil)

	_, _, err := runCmd(t, "--home", home, "config")
	c.Assert(err, qt.ErrorMatches, `invalid config: store.driver "mongo".*`)

	_, _, err = runCmd(t, "--home", home, "split", "--income1", "1", "--income2", "1", "--expense", "1")
	c.Assert(err, qt.IsNotNil)
}

func TestConfig_SetAndClearHome(t *testing.T) {
	c := qt.New(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FAIRSHARE_HOME", "")
	target := filepath.Join(t.TempDir(), "persisted")

	out, _, err := runCmd(t, "config", "set-home", target)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Persisted fairshare home: "+target)

	out, _, err = runCmd(t, "config")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "home_source: config")
	c.Assert(out, qt.Contains, "home: "+target)

	out, _, err = runCmd(t, "config", "clear-home")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Cleared persisted fairshare home setting.")

	out, _, err = runCmd(t, "config", "clear-home")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "No persisted fairshare home setting was found.")
}

func TestConfig_SetHomeKeepsMalformedGlobalConfig(t *testing.T) {
	c := qt.New(t)
	userHome := t.TempDir()
	t.Setenv("HOME", userHome)
	t.Setenv("FAIRSHARE_HOME", "")

	globalPath := filepath.Join(userHome, ".config", "fairshare", "config.yaml")
	c.Assert(os.MkdirAll(filepath.Dir(globalPath), 0o755), qt.IsNil)
	c.Assert(os.WriteFile(globalPath, []byte("home: [\n"), 0o600), qt.IsNil)

	_, _, err := runCmd(t, "config", "set-home", filepath.Join(userHome, "splits"))
	c.Assert(err, qt.ErrorMatches, `invalid config: global config .*`)
}

// ---------------------------------------------------------------------------
// Serve and MCP
// ---------------------------------------------------------------------------

func TestServe_Help(t *testing.T) {
	c := qt.New(t)

	out, _, err := runCmd(t, "serve", "--help")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "--addr")
	c.Assert(out, qt.Contains, "server.addr")
}

func TestServe_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("unusable address", func(c *qt.C) {
		_, _, err := runCmd(t, "--home", c.TB.TempDir(), "serve", "--addr", "127.0.0.1:-1")
		c.Assert(err, qt.ErrorMatches, `web.Serve: .*`)
	})

	c.Run("invalid config", func(c *qt.C) {
		home := c.TB.TempDir()
		c.Assert(os.WriteFile(filepath.Join(home, "config.yaml"), []byte("store:\n  driver: mongo\n"), 0o600), qt.IsNil)
		_, _, err := runCmd(t, "--home", home, "serve")
		c.Assert(err, qt.ErrorMatches, `service.New: load config: invalid config: .*`)
	})
}

func TestMCP_Help(t *testing.T) {
	c := qt.New(t)

	out, _, err := runCmd(t, "mcp", "--help")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "stdio")
}

func TestMCP_InvalidConfig(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	c.Assert(os.WriteFile(filepath.Join(home, "config.yaml"), []byte("log:\n  level: loud\n"), 0o600), qt.IsNil)

	_, _, err := runCmd(t, "--home", home, "mcp")
	c.Assert(err, qt.ErrorMatches, `mcp: init service: service.New: load config: invalid config: log.level: .*`)
}

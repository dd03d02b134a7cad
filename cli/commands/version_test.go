package commands

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestVersionDefaults(t *testing.T) {
	if Version != "dev" || Commit != "unknown" || BuildDate != "unknown" {
		t.Errorf("defaults = %s/%s/%s", Version, Commit, BuildDate)
	}
}

func TestVersionCommand(t *testing.T) {
	ta := newTestApp(t, seededMemory(), nil)

	if err := ta.run("version"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := ta.stdout.String()
	for _, want := range []string{"ocbot dev", runtime.Version(), "httpapi", "memory"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}
}

func TestVersionCommandJSON(t *testing.T) {
	ta := newTestApp(t, seededMemory(), nil)

	if err := ta.run("version", "--json"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var v versionInfo
	if err := json.Unmarshal(ta.stdout.Bytes(), &v); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if v.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("platform = %q", v.Platform)
	}
	if len(v.Runtimes) < 2 {
		t.Errorf("runtimes = %v", v.Runtimes)
	}
}

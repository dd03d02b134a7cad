package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/petal-labs/ocbot/core"
)

func TestKeysSetFromPipe(t *testing.T) {
	ta := newTestApp(t, seededMemory(), strings.NewReader("tok-piped\n"))

	if err := ta.run("keys", "set", "prod"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	v, err := ta.keys.Get("prod")
	if err != nil || v.Expose() != "tok-piped" {
		t.Errorf("stored token = %q, %v", v.Expose(), err)
	}
	if strings.Contains(ta.stdout.String(), "tok-piped") || strings.Contains(ta.stderr.String(), "tok-piped") {
		t.Error("token should never be echoed")
	}
}

func TestKeysSetEmpty(t *testing.T) {
	ta := newTestApp(t, seededMemory(), strings.NewReader("\n"))

	if err := ta.run("keys", "set", "prod"); exitCode(err) != ExitValidation {
		t.Errorf("exit code = %d, want %d", exitCode(err), ExitValidation)
	}
}

func TestKeysList(t *testing.T) {
	ta := newTestApp(t, seededMemory(), nil)

	if err := ta.run("keys", "list"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(ta.stdout.String(), "No tokens stored.") {
		t.Errorf("stdout = %q", ta.stdout.String())
	}

	_ = ta.keys.Set("staging", core.NewSecret("secret-a"))
	_ = ta.keys.Set("dev", core.NewSecret("secret-b"))

	listed := newTestApp(t, seededMemory(), nil)
	listed.keys = ta.keys
	if err := listed.run("keys", "list", "--json"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var out struct {
		Keys []string `json:"keys"`
	}
	if err := json.Unmarshal(listed.stdout.Bytes(), &out); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if strings.Join(out.Keys, ",") != "dev,staging" {
		t.Errorf("keys = %v", out.Keys)
	}
	if strings.Contains(listed.stdout.String(), "secret-") {
		t.Error("list should never print token values")
	}
}

func TestKeysDelete(t *testing.T) {
	ta := newTestApp(t, seededMemory(), nil)
	_ = ta.keys.Set("prod", core.NewSecret("tok"))

	if err := ta.run("keys", "delete", "prod"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if names, _ := ta.keys.List(); len(names) != 0 {
		t.Errorf("keys = %v", names)
	}

	again := newTestApp(t, seededMemory(), nil)
	again.keys = ta.keys
	if err := again.run("keys", "delete", "prod"); exitCode(err) != ExitValidation {
		t.Errorf("exit code = %d, want %d", exitCode(err), ExitValidation)
	}
	if !strings.Contains(again.stderr.String(), "no token stored for prod") {
		t.Errorf("stderr = %q", again.stderr.String())
	}
}

package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"greeter", false},
		{"my-bot", false},
		{"bot_2", false},
		{"", true},
		{"2bot", true},
		{"my bot", true},
		{"ocbot", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProjectName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateProjectName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := generateFile(path, "name={{.Name}} runtime={{.Runtime}}", templateData{Name: "bot", Runtime: "memory"}); err != nil {
		t.Fatalf("generateFile() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "name=bot runtime=memory" {
		t.Errorf("content = %q", data)
	}
}

func TestInitCreatesProjectStructure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "greeter")
	ta := newTestApp(t, seededMemory(), nil)

	if err := ta.run("init", dir, "--default-runtime", "memory"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	mainGo, err := os.ReadFile(filepath.Join(dir, "main.go"))
	if err != nil {
		t.Fatalf("main.go missing: %v", err)
	}
	for _, want := range []string{"package main", "github.com/petal-labs/ocbot/core", "hello @UserId(%s)", "FireAndForget()"} {
		if !strings.Contains(string(mainGo), want) {
			t.Errorf("main.go should contain %q", want)
		}
	}

	cfg, err := os.ReadFile(filepath.Join(dir, "ocbot.yaml"))
	if err != nil {
		t.Fatalf("ocbot.yaml missing: %v", err)
	}
	if !strings.Contains(string(cfg), "default_runtime: memory") || !strings.Contains(string(cfg), "# ocbot configuration for greeter") {
		t.Errorf("ocbot.yaml = %s", cfg)
	}

	if !strings.Contains(ta.stdout.String(), "ocbot keys set memory") {
		t.Errorf("stdout = %q", ta.stdout.String())
	}
}

func TestInitErrorOnExistingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "existing")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	ta := newTestApp(t, seededMemory(), nil)

	if err := ta.run("init", dir); exitCode(err) != ExitValidation {
		t.Errorf("exit code = %d, want %d", exitCode(err), ExitValidation)
	}
	if !strings.Contains(ta.stderr.String(), "already exists") {
		t.Errorf("stderr = %q", ta.stderr.String())
	}
}

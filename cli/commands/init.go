package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	"github.com/spf13/cobra"
)

var validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func (a *App) newInitCommand() *cobra.Command {
	var runtimeName string

	cmd := &cobra.Command{
		Use:   "init <project-name>",
		Short: "Initialize a new bot project",
		Long: `Initialize a new bot project.

Creates a project directory with:
  - main.go: a bot that answers a command with a greeting
  - ocbot.yaml: CLI configuration for the project

Example:
  ocbot init greeter
  ocbot init greeter --default-runtime memory`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(args[0], runtimeName)
		},
	}
	cmd.Flags().StringVar(&runtimeName, "default-runtime", "httpapi", "runtime used by the generated config")

	return cmd
}

func (a *App) runInit(projectPath, runtimeName string) error {
	projectName := filepath.Base(projectPath)
	if err := validateProjectName(projectName); err != nil {
		return exitWithCode(ExitValidation, err)
	}

	if _, err := os.Stat(projectPath); err == nil {
		return exitWithCode(ExitValidation, fmt.Errorf("directory %q already exists", projectPath))
	}
	if err := os.MkdirAll(projectPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", projectPath, err)
	}

	data := templateData{Name: projectName, Runtime: runtimeName}
	files := map[string]string{
		"main.go":    mainGoTemplate,
		"ocbot.yaml": configTemplate,
	}
	for name, tmpl := range files {
		if err := generateFile(filepath.Join(projectPath, name), tmpl, data); err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
	}

	fmt.Fprintf(a.stdout, "Created bot project: %s\n\n", projectName)
	fmt.Fprintln(a.stdout, "Next steps:")
	fmt.Fprintf(a.stdout, "  cd %s\n", projectPath)
	fmt.Fprintf(a.stdout, "  ocbot keys set %s\n", runtimeName)
	fmt.Fprintln(a.stdout, "  go run .")
	return nil
}

func validateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if !validProjectName.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must start with a letter and contain only letters, numbers, underscores, and hyphens", name)
	}
	if name == "ocbot" {
		return fmt.Errorf("invalid project name %q: reserved name", name)
	}
	return nil
}

type templateData struct {
	Name    string
	Runtime string
}

func generateFile(path, tmplContent string, data templateData) error {
	tmpl, err := template.New(filepath.Base(path)).Parse(tmplContent)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// Templates

var mainGoTemplate = `// Command {{.Name}} is an ocbot bot.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/petal-labs/ocbot/core"
	"github.com/petal-labs/ocbot/runtimes/httpapi"
)

func greet(client *core.Client[core.BotCommandContext]) (*core.SuccessResult, error) {
	text := fmt.Sprintf("hello @UserId(%s)", client.Context().Initiator())
	return client.SendTextMessage(text).FireAndForget().Execute(context.Background())
}

func main() {
	rt, err := httpapi.NewFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	factory := core.NewClientFactory(rt)

	// Replace with the command context your bot receives from the platform.
	cmdCtx := core.BotCommandContext{}

	result, err := greet(core.BuildClient(factory, cmdCtx))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("queued", result.Message.ID)
}
`

var configTemplate = `# ocbot configuration for {{.Name}}
default_runtime: {{.Runtime}}
bot_id: ""

# Tokens are stored with 'ocbot keys set <name>', never in this file.
runtimes:
  {{.Runtime}}:
    token_ref: {{.Runtime}}

logging:
  level: info
  format: text

middleware:
  retries: 3
  timeout: 30s
`

package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/petal-labs/ocbot/cli/keystore"
	"github.com/petal-labs/ocbot/core"
)

func (a *App) newKeysCommand() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage bot tokens",
		Long:  `Manage bot tokens. Tokens are stored encrypted in ~/.ocbot/keys.enc.`,
	}

	setCmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Store a bot token",
		Long:  `Store a bot token under name. The token is prompted without echo.`,
		Args:  cobra.ExactArgs(1),
		RunE:  a.runKeysSet,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored tokens",
		Long:  `List stored tokens. Only names are shown, never token values.`,
		Args:  cobra.NoArgs,
		RunE:  a.runKeysList,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored token",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runKeysDelete,
	}

	keysCmd.AddCommand(setCmd, listCmd, deleteCmd)
	return keysCmd
}

func (a *App) readToken(name string) (string, error) {
	fmt.Fprintf(a.stderr, "Enter token for %s: ", name)

	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Piped input
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) runKeysSet(cmd *cobra.Command, args []string) error {
	name := args[0]

	token, err := a.readToken(name)
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to read token: %w", err))
	}
	if token == "" {
		return exitWithCode(ExitValidation, fmt.Errorf("token cannot be empty"))
	}

	ks, err := a.newKeystore()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
	}
	if err := ks.Set(name, core.NewSecret(token)); err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to store token: %w", err))
	}

	fmt.Fprintf(a.stdout, "Token for %s stored.\n", name)
	return nil
}

func (a *App) runKeysList(cmd *cobra.Command, args []string) error {
	ks, err := a.newKeystore()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
	}

	names, err := ks.List()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to list tokens: %w", err))
	}

	if a.jsonOutput {
		return a.printJSON(map[string][]string{"keys": names})
	}
	if len(names) == 0 {
		fmt.Fprintln(a.stdout, "No tokens stored.")
		return nil
	}
	fmt.Fprintln(a.stdout, "Stored tokens:")
	for _, name := range names {
		fmt.Fprintf(a.stdout, "  - %s\n", name)
	}
	return nil
}

func (a *App) runKeysDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	ks, err := a.newKeystore()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
	}

	if err := ks.Delete(name); err != nil {
		var nf *keystore.ErrKeyNotFound
		if errors.As(err, &nf) {
			return exitWithCode(ExitValidation, fmt.Errorf("no token stored for %s", name))
		}
		return exitWithCode(ExitValidation, fmt.Errorf("failed to delete token: %w", err))
	}

	fmt.Fprintf(a.stdout, "Token for %s deleted.\n", name)
	return nil
}

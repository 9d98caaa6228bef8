package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/sheetr/internal/auth"
)

func newLoginCmd(app *App) *cobra.Command {
	var id, secret string
	var status bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for a bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status {
				return printLoginStatus(cmd, app)
			}
			if id == "" {
				return errors.New("--id is required")
			}
			if secret == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Secret: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading secret: %w", err)
				}
				secret = strings.TrimSpace(line)
			}

			token, err := app.Exchanger.Exchange(cmd.Context(), id, secret)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			path := app.TokenPath()
			if err := auth.SaveToken(path, token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s; token saved to %s\n", id, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Account identifier")
	cmd.Flags().StringVar(&secret, "secret", "", "Account secret (prompted when empty)")
	cmd.Flags().BoolVar(&status, "status", false, "Report whether a saved token exists")
	return cmd
}

// printLoginStatus never prints the token itself.
func printLoginStatus(cmd *cobra.Command, app *App) error {
	path := app.TokenPath()
	token, err := auth.LoadToken(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	case err != nil:
		return err
	case token == "":
		fmt.Fprintf(cmd.OutOrStdout(), "Token file %s is empty; log in again.\n", path)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in; token stored in %s\n", path)
	return nil
}

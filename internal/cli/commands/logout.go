package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/megaplex/realestate/internal/cli/auth"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the admin session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(env)
		},
	}
}

func runLogout(env *Env) error {
	apiClient, err := env.authedClient()
	if err != nil {
		if errors.Is(err, auth.ErrNotLoggedIn) {
			fmt.Fprintln(env.Out, "Not logged in")
			return nil
		}
		return err
	}

	if err := apiClient.Logout(); err != nil {
		return err
	}

	if err := env.Sessions.DeleteSession(env.Server); err != nil {
		return err
	}

	fmt.Fprintln(env.Out, "✓ Logged out")
	return nil
}

// NewStatusCmd creates the status command
func NewStatusCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the stored session is still valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(env)
		},
	}
}

func runStatus(env *Env) error {
	apiClient, err := env.authedClient()
	if err != nil {
		if errors.Is(err, auth.ErrNotLoggedIn) {
			fmt.Fprintf(env.Out, "%s: not logged in\n", env.Server)
			return nil
		}
		return err
	}

	ok, err := apiClient.Status()
	if err != nil {
		return err
	}

	if ok {
		fmt.Fprintf(env.Out, "%s: logged in as admin\n", env.Server)
	} else {
		fmt.Fprintf(env.Out, "%s: session expired\n", env.Server)
	}
	return nil
}

package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCmd creates the login command
func NewLoginCmd(env *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as the site admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(env, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email (or set REALESTATE_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set REALESTATE_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(env *Env, email, password string) error {
	// Environment variables are useful for CI/CD
	if email == "" {
		email = os.Getenv("REALESTATE_EMAIL")
	}
	if password == "" {
		password = os.Getenv("REALESTATE_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or REALESTATE_EMAIL env var)")
	}

	if password == "" {
		var err error
		password, err = promptPassword(env)
		if err != nil {
			return err
		}
	}

	apiClient := env.newClient()

	fmt.Fprintf(env.Out, "Logging in to %s...\n", env.Server)
	if err := apiClient.Login(email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := env.Sessions.SaveSession(env.Server, apiClient.Session()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Fprintln(env.Out, "✓ Login successful!")
	return nil
}

// promptPassword reads without echo on a terminal, or a single line from piped stdin
func promptPassword(env *Env) (string, error) {
	if f, ok := env.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(env.Out, "Password: ")
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(env.Out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(bytePassword), nil
	}

	line, err := bufio.NewReader(env.In).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or REALESTATE_PASSWORD env var): %v", err)
	}
	return line, nil
}

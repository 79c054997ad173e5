package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func runUserAdd(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	userID := args[0]

	fmt.Fprintf(os.Stderr, "Password for %s: ", userID)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if len(password) == 0 {
		return errors.New("password must not be empty")
	}

	if err := a.users.Register(userID, string(password)); err != nil {
		return err
	}
	a.log.Info().Str("user", userID).Msg("user registered")
	return nil
}

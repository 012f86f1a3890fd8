package main

import (
	"bufio"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store a bearer token",
	Long:  "Exchanges your email and password for an access token and stores it in the credentials file for subsequent commands.",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	RunE:  runLogout,
}

var (
	loginEmail    string
	loginPassword string
)

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	if loginEmail == "" {
		loginEmail, err = promptLine(cmd.OutOrStdout(), in, "Email: ")
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}
	if loginPassword == "" {
		loginPassword, err = promptLine(cmd.OutOrStdout(), in, "Password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	client, err := newAnonymousClient(cfg)
	if err != nil {
		return err
	}

	resp, err := client.Login(context.Background(), types.LoginRequest{
		Email:    loginEmail,
		Password: loginPassword,
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	store, err := openSession(cfg)
	if err != nil {
		return err
	}
	if err := store.Save(types.Credentials{
		AccessToken: resp.AccessToken,
		Email:       loginEmail,
	}); err != nil {
		return err
	}

	name := loginEmail
	if resp.User != nil && resp.User.Name != "" {
		name = resp.User.Name
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openSession(cfg)
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

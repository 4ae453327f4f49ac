package main

import (
	"fmt"

	"github.com/jonathan/growth-compass/internal/config"
	"github.com/jonathan/growth-compass/internal/server"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for local testing",
	Long:  "Signs a token for the given email with JWT_SECRET, for calling the authenticated endpoints during development.",
	RunE:  runToken,
}

var (
	tokenEmail string
	tokenName  string
)

func init() {
	tokenCmd.Flags().StringVarP(&tokenEmail, "email", "e", "", "Member email (required)")
	tokenCmd.Flags().StringVarP(&tokenName, "name", "n", "", "Member display name recorded when results are saved")

	if err := tokenCmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("failed to mark email flag as required: %v", err))
	}

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	jwtConfig, err := cfg.JWT()
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(jwtConfig).GenerateMemberToken(tokenEmail, tokenName)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

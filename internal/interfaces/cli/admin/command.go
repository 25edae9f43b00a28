// Package admin holds operator utilities that run outside the server process.
package admin

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/infrastructure/config"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator utilities",
		Long:  `Utilities for operating the helpdesk: password hashing and configuration inspection.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newHashPasswordCommand(),
		newConfigDumpCommand(),
	)

	return cmd
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Generate a bcrypt hash for the dashboard password",
		Long:  `Read a password from the terminal and print its bcrypt hash for auth.admin_password_hash.`,
		RunE:  runHashPassword,
	}
}

func newConfigDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config-dump",
		Short: "Print the effective configuration",
		Long:  `Load the configuration with defaults and environment overrides applied and print it as YAML.`,
		RunE:  runConfigDump,
	}
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) == 0 {
		return fmt.Errorf("password cannot be empty")
	}

	fmt.Fprint(os.Stderr, "Confirm: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if string(password) != string(confirm) {
		return fmt.Errorf("passwords do not match")
	}

	hasher := auth.NewBcryptPasswordHasher(0)
	hash, err := hasher.Hash(string(password))
	if err != nil {
		return err
	}

	fmt.Println(hash)
	return nil
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Secrets stay out of the dump.
	cfg.Telegram.BotToken = redact(cfg.Telegram.BotToken)
	cfg.Telegram.WebhookSecret = redact(cfg.Telegram.WebhookSecret)
	cfg.Database.Password = redact(cfg.Database.Password)
	cfg.Redis.Password = redact(cfg.Redis.Password)
	cfg.Auth.JWTSecret = redact(cfg.Auth.JWTSecret)
	cfg.Auth.AdminPasswordHash = redact(cfg.Auth.AdminPasswordHash)
	cfg.Email.SMTPPassword = redact(cfg.Email.SMTPPassword)

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Print(string(out))
	return nil
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}

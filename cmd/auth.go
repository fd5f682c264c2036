package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/secrets"
	"github.com/spigell/uni-navigator/internal/store"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and merge local favorites and comparison with the account",
	RunE: withDeps(func(ctx context.Context, d *deps, cmd *cobra.Command, _ []string) error {
		email, err := flagOrPrompt(cmd, "email", "Email", false)
		if err != nil {
			return err
		}
		password, err := loadPassword(cmd)
		if err != nil {
			return err
		}

		snap, err := d.store.Login(ctx, email, password)
		if err != nil {
			return err
		}
		printSession(d, snap)
		return nil
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and keep the local state in it",
	RunE: withDeps(func(ctx context.Context, d *deps, cmd *cobra.Command, _ []string) error {
		name, err := flagOrPrompt(cmd, "name", "Имя", false)
		if err != nil {
			return err
		}
		email, err := flagOrPrompt(cmd, "email", "Email", false)
		if err != nil {
			return err
		}
		password, err := loadPassword(cmd)
		if err != nil {
			return err
		}

		snap, err := d.store.Register(ctx, name, email, password)
		if err != nil {
			return err
		}
		printSession(d, snap)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local profile, favorites and comparison",
	RunE: withDeps(func(ctx context.Context, d *deps, _ *cobra.Command, _ []string) error {
		if _, err := d.store.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(d.out, "Вы вышли из аккаунта")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: withDeps(func(_ context.Context, d *deps, _ *cobra.Command, _ []string) error {
		printSession(d, d.store.Snapshot())
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().String("email", "", "account email")
		c.Flags().String("password-file", "", "file holding the password (default: prompt or UNI_NAVIGATOR_PASSWORD)")
	}
	registerCmd.Flags().String("name", "", "display name")
}

func flagOrPrompt(cmd *cobra.Command, flag, label string, mask bool) (string, error) {
	if v, _ := cmd.Flags().GetString(flag); strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), nil
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("значение обязательно")
			}
			return nil
		},
	}
	if mask {
		prompt.Mask = '*'
	}

	v, err := prompt.Run()
	return strings.TrimSpace(v), err
}

func loadPassword(cmd *cobra.Command) (string, error) {
	file, _ := cmd.Flags().GetString("password-file")
	password, err := secrets.Load(secrets.Source{
		Name: "password",
		File: file,
		Env:  envPrefix + "_PASSWORD",
	})
	if errors.Is(err, secrets.ErrNotConfigured) {
		return flagOrPrompt(cmd, "password", "Пароль", true)
	}
	return password, err
}

func printSession(d *deps, snap store.Snapshot) {
	if snap.State != store.Authenticated || snap.User == nil {
		fmt.Fprintln(d.out, "Гость (вход не выполнен)")
		return
	}

	d.logger.Debug("session", zap.String("user_id", snap.User.ID))
	fmt.Fprintf(d.out, "%s <%s>\n", snap.User.Name, snap.User.Email)
	fmt.Fprintf(d.out, "Избранное: %d, сравнение: %d/%d, заявки: %d\n",
		len(snap.Favorites), len(snap.Comparison), store.MaxComparison, len(snap.Applications))
}

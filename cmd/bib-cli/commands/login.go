package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verifies the configured library card credentials against the catalogue.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service := newService(cfg)

		err := service.Login(cmd.Context(), cfg.Account, cfg.Password)
		if err != nil {
			slog.Error("login failed", "account", cfg.Account, "err", err)
			return
		}
		slog.Info("login ok", "account", cfg.Account)
	},
}

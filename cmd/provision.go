package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtroode/linkverify-server/internal/config"
	"github.com/dtroode/linkverify-server/internal/logger"
	"github.com/dtroode/linkverify-server/internal/model"
)

func newProvisionCommand() *cobra.Command {
	var (
		userID      int64
		pageToken   string
		verifyToken string
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create a pending verification record and print its link",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(verifyToken) == "" {
				return errors.New("--verify-token must not be empty")
			}
			if pageToken == "" {
				pageToken = strings.ReplaceAll(uuid.NewString(), "-", "")
			}

			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			logger := logger.New(cfg.LogLevel)

			st, closeStore, err := openStore(cmd.Context(), cfg, false, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			record, err := st.Create(cmd.Context(), model.VerificationRecord{
				UserID:      userID,
				PageToken:   pageToken,
				VerifyToken: verifyToken,
				State:       model.StatePending,
			})
			if err != nil {
				if errors.Is(err, model.ErrAlreadyExists) {
					return fmt.Errorf("user %d already has a verification record", userID)
				}
				return err
			}

			base := strings.TrimRight(cfg.Redirect.PublicBaseURL, "/")
			fmt.Fprintf(cmd.OutOrStdout(), "%s/telegram/%d/%s\n", base, record.UserID, record.PageToken)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user-id", 0, "Telegram user id the link belongs to")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Page token embedded in the link (random when empty)")
	cmd.Flags().StringVar(&verifyToken, "verify-token", "", "Token passed to the bot as verify_<token>")
	_ = cmd.MarkFlagRequired("user-id")
	_ = cmd.MarkFlagRequired("verify-token")
	return cmd
}

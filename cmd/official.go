package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jjenkins/econsult/internal/service"
	"github.com/jjenkins/econsult/internal/store"
	"github.com/spf13/cobra"
)

var (
	officialEmail string
	officialGovID string
	officialName  string
)

var officialCmd = &cobra.Command{
	Use:   "official",
	Short: "Manage officials approved for government access",
}

var officialAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Approve an official, or reset their credentials",
	Long: `Add stores an official's email, government ID and a bcrypt hash of their
password. The password is read from ECONSULT_OFFICIAL_PASSWORD so it does
not end up in shell history.

Example:
  ECONSULT_OFFICIAL_PASSWORD=... ./econsult official add --email a.rao@gov.in --gov-id GOV-1042 --name "Asha Rao"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := os.Getenv("ECONSULT_OFFICIAL_PASSWORD")
		if password == "" {
			return fmt.Errorf("ECONSULT_OFFICIAL_PASSWORD must be set")
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		ctx, cancel := signalContext()
		defer cancel()

		// token settings are irrelevant here; only AddOfficial is used
		auth := service.NewAuthService(store.NewOfficialStore(e.db), e.cfg.Auth.JWTSecret, time.Hour, e.log)
		return auth.AddOfficial(ctx, officialEmail, officialGovID, password, officialName)
	},
}

func init() {
	rootCmd.AddCommand(officialCmd)
	officialCmd.AddCommand(officialAddCmd)

	officialAddCmd.Flags().StringVar(&officialEmail, "email", "", "Government email address")
	officialAddCmd.Flags().StringVar(&officialGovID, "gov-id", "", "Government ID")
	officialAddCmd.Flags().StringVar(&officialName, "name", "", "Display name")
	officialAddCmd.MarkFlagRequired("email")
	officialAddCmd.MarkFlagRequired("gov-id")
}

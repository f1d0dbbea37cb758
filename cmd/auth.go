package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/teemow/workday/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		device bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize workday to access a Google account",
		Long: `Authorize workday to read your calendar, read and send Gmail and create
Google Tasks. The token is stored per account name in the user cache
directory and refreshed automatically.

The OAuth client is read from GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.

By default you open a URL, grant access and paste the code back. With
--device the device authorization flow is used instead, which suits
machines without a browser.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(globalOpts)
			if err != nil {
				return err
			}
			provider := google.NewFileTokenProvider()
			out := cmd.OutOrStdout()

			if provider.HasTokenForAccount(cfg.Account) && !force {
				fmt.Fprintf(out, "Account %q is already authorized. Use --force to authorize again.\n", cfg.Account)
				return nil
			}

			conf := google.GetOAuthConfig()
			if conf.ClientID == "" || conf.ClientSecret == "" {
				return fmt.Errorf("%s and %s must be set", google.EnvClientID, google.EnvClientSecret)
			}

			ctx := commandContext(cmd)
			if device {
				err = google.DeviceLogin(ctx, conf, provider, cfg.Account, func(resp *oauth2.DeviceAuthResponse) {
					fmt.Fprintf(out, "Open %s and enter the code %s\n", resp.VerificationURI, resp.UserCode)
				})
			} else {
				fmt.Fprintf(out, "Open this URL in your browser and grant access:\n\n%s\n\n", google.GetAuthURL(conf))
				var code string
				code, err = readAuthCode(cmd.InOrStdin(), out)
				if err == nil {
					err = google.ExchangeCode(ctx, conf, provider, cfg.Account, code)
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Account %q authorized.\n", cfg.Account)
			return nil
		},
	}

	cmd.Flags().BoolVar(&device, "device", false, "Use the OAuth device flow")
	cmd.Flags().BoolVar(&force, "force", false, "Authorize again even if a token is stored")
	return cmd
}

func readAuthCode(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Authorization code: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read authorization code: %w", err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return "", errors.New("no authorization code entered")
	}
	return code, nil
}

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"twofa/internal/app"
	"twofa/internal/config"
	"twofa/internal/middleware"
	"twofa/internal/models"
	"twofa/internal/repositories"
	"twofa/internal/services"
	"twofa/internal/utils"
)

// newRootCmd создаёт свежее дерево команд (в тестах: на каждый вызов).
func newRootCmd() *cobra.Command {
	var cfgFile string

	loadConfig := func() (*config.Config, error) {
		return config.LoadConfig(cfgFile)
	}

	root := &cobra.Command{
		Use:   "twofa",
		Short: "Seed decryption and TOTP two-factor codes over HTTP.",
		Long: `twofa accepts an RSA-OAEP encrypted seed, stores it locally and serves
time-based one-time codes derived from it.

Running without a subcommand starts the HTTP server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return app.Run(cfg)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "path to the YAML config file")

	root.AddCommand(
		newServeCmd(loadConfig),
		newKeygenCmd(),
		newEncryptSeedCmd(),
		newEnrollCmd(loadConfig),
		newIssueTokenCmd(loadConfig),
	)
	return root
}

type configLoader func() (*config.Config, error)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return app.Run(cfg)
		},
	}
}

func newKeygenCmd() *cobra.Command {
	var (
		privatePath string
		publicPath  string
		bits        int
		force       bool
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the RSA key pair used for seed encryption",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				for _, p := range []string{privatePath, publicPath} {
					if _, err := os.Stat(p); err == nil {
						return fmt.Errorf("%s already exists (use --force to overwrite)", p)
					}
				}
			}

			key, err := utils.GenerateKeyPair(bits)
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}
			privPEM, err := utils.EncodePrivateKeyPEM(key)
			if err != nil {
				return err
			}
			pubPEM, err := utils.EncodePublicKeyPEM(&key.PublicKey)
			if err != nil {
				return err
			}
			if err := os.WriteFile(privatePath, privPEM, 0o600); err != nil {
				return err
			}
			if err := os.WriteFile(publicPath, pubPEM, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "private key: %s\npublic key:  %s\n", privatePath, publicPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&privatePath, "private", "student_private.pem", "private key output path")
	cmd.Flags().StringVar(&publicPath, "public", "student_public.pem", "public key output path")
	cmd.Flags().IntVar(&bits, "bits", utils.DefaultKeyBits, "RSA modulus size")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

func newEncryptSeedCmd() *cobra.Command {
	var (
		publicPath string
		seed       string
	)
	cmd := &cobra.Command{
		Use:   "encrypt-seed",
		Short: "Encrypt a seed for POST /decrypt-seed (random seed if --seed is omitted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == "" {
				generated, err := utils.NewSeed(32)
				if err != nil {
					return err
				}
				seed = generated
				fmt.Fprintf(cmd.ErrOrStderr(), "seed: %s\n", seed)
			}
			if _, err := models.ParseSeed(seed); err != nil {
				return err
			}

			pub, err := utils.LoadPublicKey(publicPath)
			if err != nil {
				return err
			}
			out, err := utils.EncryptSeed(pub, seed)
			if err != nil {
				return fmt.Errorf("encrypt seed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&publicPath, "public", "student_public.pem", "RSA public key (PEM)")
	cmd.Flags().StringVar(&seed, "seed", "", "64 lowercase hex characters")
	return cmd
}

func newEnrollCmd(load configLoader) *cobra.Command {
	var (
		issuer  string
		account string
		noQR    bool
	)
	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Print the otpauth URL and QR code for the stored seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			repo := repositories.NewFileSeedRepository(cfg.Storage.DataDir, cfg.Storage.SeedFile)
			url, err := services.NewTOTPService(repo).ProvisioningURL(issuer, account)
			if err != nil {
				if errors.Is(err, services.ErrSeedNotReady) {
					return fmt.Errorf("no seed stored at %s", repo.Path())
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, url)
			if noQR {
				return nil
			}
			qr, err := qrcode.New(url, qrcode.Medium)
			if err != nil {
				return fmt.Errorf("qr code: %w", err)
			}
			fmt.Fprint(out, qr.ToString(false))
			return nil
		},
	}
	cmd.Flags().StringVar(&issuer, "issuer", "twofa", "issuer shown in the authenticator app")
	cmd.Flags().StringVar(&account, "account", "student", "account label")
	cmd.Flags().BoolVar(&noQR, "no-qr", false, "print only the URL")
	return cmd
}

func newIssueTokenCmd(load configLoader) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Mint a bearer token for POST /decrypt-seed (requires auth.jwt_secret)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			token, err := middleware.IssueToken(cfg.Auth.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "provisioner", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

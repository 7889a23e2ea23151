package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/agricarbon/internal/certs"
	"github.com/Veraticus/agricarbon/internal/config"
	"github.com/Veraticus/agricarbon/internal/devserver"
	"github.com/spf13/cobra"
)

func devserverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Serve a canned analysis service for local testing",
		Long: `Run a stand-in for the analysis service that accepts uploads and answers
with a fixed cropland analysis. Point the CLI at it with --api-url.

With --tls a self-signed localhost certificate is created in --cert-dir and
reused on later runs. Trust it from the CLI with api.ca_cert.

Example:
  agricarbon devserver --addr :8000 &
  agricarbon analyze farm.jpg --api-url http://localhost:8000

  agricarbon devserver --tls &
  AGRICARBON_API_CA_CERT=~/.config/agricarbon/certs/localhost.crt \
    agricarbon analyze farm.jpg --api-url https://localhost:8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			useTLS, _ := cmd.Flags().GetBool("tls")
			certDir, _ := cmd.Flags().GetString("cert-dir")

			server := devserver.New(slog.Default())
			if !useTLS {
				return server.ListenAndServe(cmd.Context(), addr)
			}

			manager := certs.NewFileManager(config.ExpandPath(certDir))
			cert, err := manager.GetOrCreateCertificate()
			if err != nil {
				return fmt.Errorf("failed to prepare TLS certificate: %w", err)
			}
			slog.Info("Using TLS certificate", "cert", manager.CertFile())
			return server.ListenAndServeTLS(cmd.Context(), addr, cert)
		},
	}

	cmd.Flags().String("addr", "127.0.0.1:8000", "Address to listen on")
	cmd.Flags().Bool("tls", false, "Serve HTTPS with a self-signed localhost certificate")
	cmd.Flags().String("cert-dir", "~/.config/agricarbon/certs", "Directory for the generated certificate")

	return cmd
}

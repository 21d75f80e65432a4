// Package main is a terminal client for the registration API. It renders each
// step from the served field schema and walks the Aadhaar, OTP and PAN flow.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"udyam/internal/wizard"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		apiURL  string
		timeout time.Duration
	)
	newClient := func() *wizard.Client {
		return wizard.NewClient(apiURL, &http.Client{Timeout: timeout})
	}

	cmd := &cobra.Command{
		Use:           "udyam-wizard",
		Short:         "Interactive Udyam registration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			s := newSession(newClient(), bufio.NewScanner(cmd.InOrStdin()), cmd.OutOrStdout())
			return s.run(ctx)
		},
	}
	cmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:5001", "Registration API base URL")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")

	cmd.AddCommand(&cobra.Command{
		Use:   "schema <step>",
		Short: "Print the rendered fields of a step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := wizard.LoadForm(cmd.Context(), newClient(), args[0])
			if err != nil {
				return err
			}
			printControls(cmd.OutOrStdout(), form.Render())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pincode <code>",
		Short: "Resolve a PIN code to its locality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := newClient().LookupPincode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, %s, %s\n", loc.Pincode, loc.Name, loc.District, loc.State)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "udyam-wizard version %s\n", Version)
		},
	})

	return cmd
}

// runWithContext lets tests execute the command tree without signal handling.
func runWithContext(ctx context.Context, cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

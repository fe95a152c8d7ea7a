package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"xdao.co/nodeid/compliance"
	"xdao.co/nodeid/fingerprint"
	"xdao.co/nodeid/fingerprintrpc"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks errors that exit with status 2.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

var errMismatch = errors.New("fingerprint does not match key material")

func run(args []string, out io.Writer, errOut io.Writer) int {
	cmd := newRootCmd(out, errOut)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		printError(errOut, err)
		var u usageError
		if errors.As(err, &u) {
			return 2
		}
		return 1
	}
	return 0
}

func printError(w io.Writer, err error) {
	if rule := fingerprint.RuleID(err); rule != "" {
		fmt.Fprintf(w, "error [%s]: %v\n", rule, err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

type rootOptions struct {
	server  string
	timeout time.Duration
}

// client dials --server, or returns nil when the command should run locally.
func (o *rootOptions) client() (*fingerprintrpc.Client, error) {
	if o.server == "" {
		return nil, nil
	}
	c, err := fingerprintrpc.Dial(o.server, fingerprintrpc.DialOptions{Timeout: o.timeout})
	if err != nil {
		return nil, err
	}
	c.Timeout = o.timeout
	return c, nil
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "nodeid",
		Short:         "Derive, parse and verify self-certifying node fingerprints",
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: `nodeid works with node fingerprints: a 40-bit address and a SHA-384 hash,
both derived from a node's public key material, written as
<10 hex>-<96 hex>.

Key material is given as --key <alg>:<base64>, --key-hex <hex> or
--key-file <path>. With --server, derive/parse/verify are answered by a
nodeid-fpd daemon.`,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	root.PersistentFlags().StringVar(&opts.server, "server", "", "nodeid-fpd address host:port")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "dial and per-RPC timeout for --server")

	root.AddCommand(
		newDeriveCmd(opts),
		newAddressCmd(),
		newParseCmd(opts),
		newVerifyCmd(opts),
		newKeygenCmd(),
		newCIDCmd(),
		newTrustCmd(),
	)
	return root
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError{fmt.Errorf("%s: expected %d argument(s), got %d", cmd.CommandPath(), n, len(args))}
		}
		return nil
	}
}

func modeFlag(cmd *cobra.Command, mode *string) {
	cmd.Flags().StringVar(mode, "mode", "permissive", "compliance mode: permissive|strict")
}

func parseMode(s string) (compliance.ComplianceMode, error) {
	mode, ok := compliance.ParseMode(s)
	if !ok {
		return mode, usageError{fmt.Errorf("invalid --mode %q (want permissive or strict)", s)}
	}
	return mode, nil
}

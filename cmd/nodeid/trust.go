package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xdao.co/nodeid/fingerprint"
	"xdao.co/nodeid/trust"
)

func newTrustCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trust",
		Short: "Work with peer-trust documents",
	}
	cmd.AddCommand(newTrustCheckCmd(), newTrustRenderCmd(), newTrustPinCmd(), newTrustAuthCmd())
	return cmd
}

func loadPolicy(path, mode string) (*trust.Policy, error) {
	m, err := parseMode(mode)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trust document: %w", err)
	}
	return trust.ParseWithCompliance(b, m)
}

func newTrustCheckCmd() *cobra.Command {
	var mode string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a trust document",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPolicy(args[0], mode)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d entries\n", p.Len())
			return err
		},
	}
	modeFlag(cmd, &mode)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the parsed document as JSON")
	return cmd
}

func newTrustRenderCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Print the canonical form of a trust document",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPolicy(args[0], mode)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(p.Render())
			return err
		},
	}
	modeFlag(cmd, &mode)
	return cmd
}

func newTrustPinCmd() *cobra.Command {
	var in keyInput
	var fp, role, file string
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Add a fingerprint to a trust document and print the result",
		Long: `pin adds an entry for --fingerprint, or for the fingerprint of the given key
material, to --file (or to a new document) and prints the canonical result.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var entry trust.Entry
			entry.Role = role
			if fp != "" {
				parsed, err := fingerprint.Parse(fp)
				if err != nil {
					return err
				}
				entry.Fingerprint = parsed
			} else {
				material, err := in.material()
				if err != nil {
					return err
				}
				entry.Fingerprint = fingerprint.FromKey(material)
			}

			var p *trust.Policy
			var err error
			if file != "" {
				p, err = loadPolicy(file, "permissive")
			} else {
				p, err = trust.New(map[string]string{"Spec": trust.SpecName, "Version": "1"}, nil)
			}
			if err != nil {
				return err
			}
			if p, err = p.With(entry); err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(p.Render())
			return err
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&fp, "fingerprint", "", "fingerprint to pin")
	cmd.Flags().StringVar(&role, "role", "", "role of the pinned peer")
	cmd.Flags().StringVar(&file, "file", "", "existing trust document")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newTrustAuthCmd() *cobra.Command {
	var in keyInput
	var mode string
	cmd := &cobra.Command{
		Use:   "auth <file>",
		Short: "Authenticate key material against a trust document",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPolicy(args[0], mode)
			if err != nil {
				return err
			}
			material, err := in.material()
			if err != nil {
				return err
			}
			e, err := p.Authenticate(material)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", e.Fingerprint, e.Role)
			return err
		},
	}
	in.register(cmd)
	modeFlag(cmd, &mode)
	return cmd
}

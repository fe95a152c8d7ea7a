package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ipfs/go-cid"
	"github.com/spf13/cobra"

	"xdao.co/nodeid/address"
	"xdao.co/nodeid/cidutil"
	"xdao.co/nodeid/fingerprint"
	"xdao.co/nodeid/fingerprintrpc"
	"xdao.co/nodeid/keys"
)

// fingerprintView is the --json output of derive and parse.
type fingerprintView struct {
	Fingerprint fingerprint.Fingerprint `json:"fingerprint"`
	Address     address.Address         `json:"address"`
	Hash        string                  `json:"hash"`
	CID         string                  `json:"cid"`
}

func printFingerprint(w io.Writer, fp fingerprint.Fingerprint, asJSON bool) error {
	if !asJSON {
		text, err := fp.Encode()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, text)
		return err
	}
	id, err := fp.Hash.CID()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fingerprintView{
		Fingerprint: fp,
		Address:     fp.Address,
		Hash:        fp.Hash.String(),
		CID:         id.String(),
	})
}

func newDeriveCmd(opts *rootOptions) *cobra.Command {
	var in keyInput
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the fingerprint of key material",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			material, err := in.material()
			if err != nil {
				return err
			}
			fp, err := derive(cmd.Context(), opts, material)
			if err != nil {
				return err
			}
			return printFingerprint(cmd.OutOrStdout(), fp, asJSON)
		},
	}
	in.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print address, hash and CID as JSON")
	return cmd
}

func derive(ctx context.Context, opts *rootOptions, material []byte) (fingerprint.Fingerprint, error) {
	c, err := opts.client()
	if err != nil {
		return fingerprint.Fingerprint{}, err
	}
	if c == nil {
		return fingerprint.FromKey(material), nil
	}
	defer c.Close()
	return c.Derive(ctx, material)
}

func newAddressCmd() *cobra.Command {
	var in keyInput
	cmd := &cobra.Command{
		Use:   "address [<address>]",
		Short: "Derive an address from key material, or validate one",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageError{fmt.Errorf("%s: expected at most 1 argument", cmd.CommandPath())}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a, err := address.Parse(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), a)
				return err
			}
			material, err := in.material()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), address.Derive(material))
			return err
		},
	}
	in.register(cmd)
	return cmd
}

func newParseCmd(opts *rootOptions) *cobra.Command {
	var mode string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "parse <fingerprint>",
		Short: "Validate a fingerprint and print its canonical form",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			// --mode applies to the input as given, also with --server.
			fp, err := fingerprint.ParseWithCompliance(args[0], m)
			if err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			if c != nil {
				defer c.Close()
				text, err := c.Canonicalize(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if text != fp.String() {
					return fmt.Errorf("%w: canonical form %s, want %s", fingerprintrpc.ErrBadReply, text, fp)
				}
			}
			return printFingerprint(cmd.OutOrStdout(), fp, asJSON)
		},
	}
	modeFlag(cmd, &mode)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print address, hash and CID as JSON")
	return cmd
}

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	var in keyInput
	var mode string
	cmd := &cobra.Command{
		Use:   "verify <fingerprint>",
		Short: "Check that key material matches a fingerprint",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			fp, err := fingerprint.ParseWithCompliance(args[0], m)
			if err != nil {
				return err
			}
			material, err := in.material()
			if err != nil {
				return err
			}

			var ok bool
			c, err := opts.client()
			if err != nil {
				return err
			}
			if c != nil {
				defer c.Close()
				if ok, err = c.Verify(cmd.Context(), fp, material); err != nil {
					return err
				}
			} else {
				ok = fp.VerifyAgainst(material)
			}
			if !ok {
				return errMismatch
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
	in.register(cmd)
	modeFlag(cmd, &mode)
	return cmd
}

func newKeygenCmd() *cobra.Command {
	var alg, seedHex, role string
	var showSeed bool
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a public key and print it with its fingerprint",
		Long: `keygen prints "public-key: <alg>:<base64>" and "fingerprint: <fp>".

For ed25519, --seed-hex makes the key deterministic and --role derives a
role-specific child seed from it.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var pub keys.PublicKey
			var seed []byte
			switch keys.Algorithm(alg) {
			case keys.Ed25519:
				var err error
				if seedHex == "" {
					if role != "" {
						return usageError{fmt.Errorf("--role requires --seed-hex")}
					}
					pub, seed, err = keys.GenerateEd25519(rand.Reader)
					if err != nil {
						return err
					}
					break
				}
				if seed, err = keys.ParseSeedHex(seedHex); err != nil {
					return err
				}
				if role != "" {
					if seed, err = keys.DeriveRoleSeed(seed, role); err != nil {
						return err
					}
				}
				if pub, _, err = keys.Ed25519FromSeed(seed); err != nil {
					return err
				}
			case keys.Dilithium3:
				if seedHex != "" || role != "" {
					return usageError{fmt.Errorf("--seed-hex and --role are ed25519 only")}
				}
				var err error
				if pub, _, err = keys.GenerateDilithium3(rand.Reader); err != nil {
					return err
				}
			default:
				return usageError{fmt.Errorf("%w: %q", keys.ErrUnsupportedAlgorithm, alg)}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "public-key: %s\n", pub)
			fmt.Fprintf(w, "fingerprint: %s\n", fingerprint.FromKey(pub.Material()))
			if showSeed && seed != nil {
				fmt.Fprintf(w, "seed: %s\n", hex.EncodeToString(seed))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&alg, "alg", string(keys.Ed25519), "key algorithm: ed25519|dilithium3")
	cmd.Flags().StringVar(&seedHex, "seed-hex", "", "32-byte ed25519 seed as hex")
	cmd.Flags().StringVar(&role, "role", "", "derive a role seed from --seed-hex")
	cmd.Flags().BoolVar(&showSeed, "show-seed", false, "also print the ed25519 seed")
	return cmd
}

func newCIDCmd() *cobra.Command {
	var in keyInput
	var decode string
	cmd := &cobra.Command{
		Use:   "cid [<fingerprint>]",
		Short: "Print the CID of a fingerprint hash (CIDv1, raw, sha2-384)",
		Long: `cid prints the content identifier of a fingerprint's hash, or of key
material given with --key/--key-hex/--key-file. The CID does not carry the
address. --decode prints the hash hex held by a sha2-384 CID.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageError{fmt.Errorf("%s: expected at most 1 argument", cmd.CommandPath())}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch {
			case decode != "":
				id, err := cid.Decode(decode)
				if err != nil {
					return err
				}
				h, err := fingerprint.HashFromCID(id)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, h)
				return err
			case len(args) == 1:
				fp, err := fingerprint.Parse(args[0])
				if err != nil {
					return err
				}
				id, err := fp.Hash.CID()
				if err != nil {
					return err
				}
				return printCID(w, id)
			default:
				material, err := in.material()
				if err != nil {
					return err
				}
				id, err := cidutil.CIDv1RawSHA384(material)
				if err != nil {
					return err
				}
				return printCID(w, id)
			}
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&decode, "decode", "", "print the fingerprint hash carried by this CID")
	return cmd
}

func printCID(w io.Writer, id cid.Cid) error {
	_, err := fmt.Fprintln(w, id)
	return err
}

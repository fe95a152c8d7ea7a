package main

import (
	"encoding/hex"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"xdao.co/nodeid/keys"
)

// keyInput collects key material from exactly one of its flags.
type keyInput struct {
	key  string
	hex  string
	file string
}

func (k *keyInput) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&k.key, "key", "", "public key as <alg>:<base64> (ed25519, dilithium3)")
	cmd.Flags().StringVar(&k.hex, "key-hex", "", "raw key material as hex")
	cmd.Flags().StringVar(&k.file, "key-file", "", "file holding raw key material")
}

func (k *keyInput) material() ([]byte, error) {
	set := 0
	for _, v := range []string{k.key, k.hex, k.file} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, usageError{errors.New("exactly one of --key, --key-hex, --key-file is required")}
	}

	switch {
	case k.key != "":
		pub, err := keys.ParsePublicKey(k.key)
		if err != nil {
			return nil, err
		}
		return pub.Material(), nil
	case k.hex != "":
		return hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(k.hex), "0x"))
	default:
		return os.ReadFile(k.file)
	}
}

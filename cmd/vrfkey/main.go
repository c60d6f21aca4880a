// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Command vrfkey prints the VRF key of a node instance, generating it when missing.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/vechain/sequencer/vrf"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("command: vrfkey <INSTANCE_DIR>")
		os.Exit(1)
	}

	file := filepath.Join(os.Args[1], "vrf.key")
	key, generated, err := vrf.LoadOrGenerateKey(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.WithMessage(err, "load vrf key"))
		os.Exit(1)
	}
	if generated {
		fmt.Printf("generated: %v\n", file)
	}
	fmt.Printf("sk: %x\n", key.Bytes())
	fmt.Printf("pk: %x\n", key.PublicKey())
}

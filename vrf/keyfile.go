// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vrf

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadKey reads a hex encoded key from file.
func LoadKey(file string) (*PrivateKey, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(string(data)), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "decode key")
	}
	return ParseKey(b)
}

// SaveKey writes the key hex encoded to file, readable by the owner only.
func SaveKey(file string, key *PrivateKey) error {
	return os.WriteFile(file, []byte(hex.EncodeToString(key.Bytes())), 0600)
}

// LoadOrGenerateKey loads the key in file, generating and saving a new one when the file doesn't exist.
func LoadOrGenerateKey(file string) (key *PrivateKey, generated bool, err error) {
	if key, err = LoadKey(file); err == nil {
		return key, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, err
	}
	if key, err = GenerateKey(); err != nil {
		return nil, false, err
	}
	if err := SaveKey(file, key); err != nil {
		return nil, false, err
	}
	return key, true, nil
}

// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package githubapp

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// minRSAKeyBits is minimum supported RSA key size.
const minRSAKeyBits = 2048

// LoadPrivateKey reads PEM encoded RSA private key from path.
//
// Existence of the file is checked before reading it. If it does not exist,
// returned error wraps both [ErrPrivateKeyNotFound] and [io/fs.ErrNotExist].
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is empty", ErrPrivateKeyNotFound)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrPrivateKeyNotFound, path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("githubapp(key): %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidPrivateKey, path)
	}

	slurp, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("githubapp(key): failed to read private key: %w", err)
	}

	key, err := ParsePrivateKey(slurp)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return key, nil
}

// ParsePrivateKey parses PEM encoded RSA private key. Both PKCS#1 and
// PKCS#8 encodings are supported. Keys smaller than 2048 bits are rejected.
func ParsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}

	if key.N.BitLen() < minRSAKeyBits {
		return nil, fmt.Errorf("%w: rsa keys size(%d) < %d bits",
			ErrInvalidPrivateKey, key.N.BitLen(), minRSAKeyBits)
	}
	return key, nil
}

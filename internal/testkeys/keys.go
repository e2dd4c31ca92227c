// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package testkeys generates ephemeral test keys and writes them
// as PEM encoded key files.
//
// Generated keys are unique per execution of the binary and are generated
// on demand.
//
// DO NOT USE THESE KEYS OUTSIDE OF UNIT TESTING.
package testkeys

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// must panics if key generation fails. Tests cannot continue without keys.
func must[T any](v T, err error) T {
	if err != nil {
		panic("testkeys: " + err.Error())
	}
	return v
}

var (
	rsa1024 = sync.OnceValue(func() *rsa.PrivateKey {
		//nolint:gosec // check to ensure key size < 2048 is rejected.
		return must(rsa.GenerateKey(rand.Reader, 1024))
	})
	rsa2048 = sync.OnceValue(func() *rsa.PrivateKey {
		return must(rsa.GenerateKey(rand.Reader, 2048))
	})
	ecdsaP256 = sync.OnceValue(func() *ecdsa.PrivateKey {
		return must(ecdsa.GenerateKey(elliptic.P256(), rand.Reader))
	})
	ed25519Key = sync.OnceValue(func() ed25519.PrivateKey {
		_, key, err := ed25519.GenerateKey(rand.Reader)
		return must(key, err)
	})
)

// RSA1024 returns ephemeral RSA-1024 key. Used to check weak keys are rejected.
func RSA1024() *rsa.PrivateKey { return rsa1024() }

// RSA2048 returns ephemeral RSA-2048 key.
func RSA2048() *rsa.PrivateKey { return rsa2048() }

// ECP256 returns ephemeral ECDSA-P256 key.
func ECP256() *ecdsa.PrivateKey { return ecdsaP256() }

// ED25519 returns ephemeral ED25519 key.
func ED25519() ed25519.PrivateKey { return ed25519Key() }

// PKCS1 returns PEM encoded PKCS#1 private key.
func PKCS1(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

// PKCS8 returns PEM encoded PKCS#8 private key.
func PKCS8(key any) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: must(x509.MarshalPKCS8PrivateKey(key)),
	})
}

// WriteFile writes data to a file named name in a temporary directory
// which is removed when the test completes. Returns the path to the file.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write %s: %s", path, err)
	}
	return path
}

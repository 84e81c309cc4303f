// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package password is the credential hasher. The stored form is a
// bcrypt hash; the contract is hash(password) -> stored form and
// verify(password, stored form) -> bool.
package password

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when no user was found, so a lookup
// miss costs the same as a password mismatch.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Hash derives the stored form of a plaintext password.
func Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored form.
func Verify(plaintext, storedForm string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedForm), []byte(plaintext)) == nil
}

// CompareDummy burns one bcrypt comparison without verifying anything.
func CompareDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plaintext))
}

// Package crypt implements the optional passphrase-based confidentiality
// layer of the codec.
//
// Ciphertext is a Fernet token (github.com/fernet/fernet-go): a versioned,
// timestamped, HMAC-authenticated, base64url-encoded blob. The key is the
// SHA-256 digest of the passphrase, so tokens are wire-compatible with the
// original Python service, which derived its Fernet key the same way. The
// passphrase itself is never stored or compared; only the derived key is
// used, and only for the duration of a call.
package crypt

import (
	"crypto/sha256"
	"time"

	"github.com/fernet/fernet-go"

	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
)

// deriveKey turns a passphrase into a 32-byte Fernet key.
func deriveKey(passphrase string) *fernet.Key {
	key := fernet.Key(sha256.Sum256([]byte(passphrase)))
	return &key
}

// Encrypt returns text unchanged when passphrase is empty; otherwise it
// returns an authenticated Fernet token under the derived key.
func Encrypt(text, passphrase string) (string, error) {
	if passphrase == "" {
		return text, nil
	}
	tok, err := fernet.EncryptAndSign([]byte(text), deriveKey(passphrase))
	if err != nil {
		return "", qrerrors.Wrap(qrerrors.ErrCodeInternal, err, "encrypt payload")
	}
	return string(tok), nil
}

// Decrypt returns token unchanged when passphrase is empty; otherwise it
// verifies and decrypts the Fernet token.
//
// Any verification failure (wrong passphrase, truncated or corrupted token)
// reports ErrCodeDecryption. Token age is deliberately not enforced: an
// archived QR image must stay decodable indefinitely.
func Decrypt(token, passphrase string) (string, error) {
	if passphrase == "" {
		return token, nil
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), time.Duration(0), []*fernet.Key{deriveKey(passphrase)})
	if msg == nil {
		return "", qrerrors.New(qrerrors.ErrCodeDecryption,
			"decryption failed: wrong passphrase or corrupted data")
	}
	return string(msg), nil
}

// Package crypto provides the cryptographic helpers used across the
// application: RSA key pair generation for external accounts, HMAC digests for
// webhook signatures, and RS256 JWT issuance.
package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prbot/prbot/pkg/errors"
)

// rsaKeySize is the modulus size used for generated external account keys
const rsaKeySize = 4096

// KeyPair holds a PEM-encoded RSA key pair
type KeyPair struct {
	PublicKey  string
	PrivateKey string
}

// GenerateKeyPair generates a new RSA key pair, PEM encoded
func GenerateKeyPair() (KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeySize)
	if err != nil {
		return KeyPair{}, errors.Wrap(errors.ErrCodeInternal, "failed to generate RSA key", err)
	}

	privateBlock := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}

	publicBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return KeyPair{}, errors.Wrap(errors.ErrCodeInternal, "failed to encode RSA public key", err)
	}
	publicBlock := &pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicBytes,
	}

	return KeyPair{
		PublicKey:  string(pem.EncodeToMemory(publicBlock)),
		PrivateKey: string(pem.EncodeToMemory(privateBlock)),
	}, nil
}

// ComputeHMACSHA256 returns the hex-encoded HMAC-SHA256 digest of message under key
func ComputeHMACSHA256(key string, message []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMACSHA256 compares a hex digest against the expected digest in constant time
func VerifyHMACSHA256(key string, message []byte, digest string) bool {
	expected := ComputeHMACSHA256(key, message)
	return hmac.Equal([]byte(expected), []byte(digest))
}

// CreateAccessToken issues a never-expiring RS256 token for an external
// account. The account username is carried in the issuer claim; revocation is
// done by rotating the account keys.
func CreateAccessToken(username, privateKeyPEM string) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeValidation, "invalid RSA private key", err)
	}

	claims := jwt.MapClaims{
		"iss": username,
		"iat": jwt.NewNumericDate(time.Now().UTC()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

// UnverifiedIssuer extracts the issuer claim from a token without checking its
// signature. The caller is expected to verify the token afterwards with the
// public key belonging to that issuer.
func UnverifiedIssuer(tokenString string) (string, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnauthorized, "could not decode token", err)
	}

	issuer, err := token.Claims.GetIssuer()
	if err != nil || issuer == "" {
		return "", errors.ErrUnauthorized("missing 'iss' claim from token")
	}
	return issuer, nil
}

// VerifyAccessToken validates an RS256 token against a PEM-encoded public key
func VerifyAccessToken(tokenString, publicKeyPEM string) error {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnauthorized, "invalid RSA public key", err)
	}

	_, err = jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.ErrUnauthorized("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnauthorized, "invalid token", err)
	}
	return nil
}

// Package cert generates the self-signed certificate used when the preview
// server runs with TLS enabled.
package cert

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"time"
)

// CertificateConfig holds the parameters for certificate generation.
type CertificateConfig struct {
	CommonName   string
	Organization string
	ValidityDays int
	KeySize      int
	DNSNames     []string
	IPAddresses  []net.IP
}

// DefaultConfig returns the preview-server defaults: RSA 2048, one year,
// valid for localhost only.
func DefaultConfig() *CertificateConfig {
	return &CertificateConfig{
		CommonName:   "iconforge preview",
		Organization: "iconforge",
		ValidityDays: 365,
		KeySize:      2048,
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")},
	}
}

// EnsureKeyPair creates a self-signed certificate and key at the given paths
// unless both files already exist.
func EnsureKeyPair(certPath, keyPath string) error {
	_, certErr := os.Stat(certPath)
	_, keyErr := os.Stat(keyPath)
	if certErr == nil && keyErr == nil {
		return nil
	}
	return GenerateSelfSignedCertificateFiles(DefaultConfig(), certPath, keyPath)
}

// GenerateSelfSignedCertificateFiles creates a self-signed certificate and
// key and writes them as PEM files.
func GenerateSelfSignedCertificateFiles(config *CertificateConfig, certPath, keyPath string) error {
	if config == nil {
		config = DefaultConfig()
	}

	key, err := rsa.GenerateKey(rand.Reader, config.KeySize)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	serial := make([]byte, 16)
	if _, err := rand.Read(serial); err != nil {
		return fmt.Errorf("generate serial: %w", err)
	}

	now := time.Now().UTC().Add(-5 * time.Minute)
	tmpl := &x509.Certificate{
		SerialNumber: new(big.Int).SetBytes(serial),
		Subject: pkix.Name{
			CommonName:   config.CommonName,
			Organization: []string{config.Organization},
		},
		NotBefore:             now,
		NotAfter:              now.Add(time.Duration(config.ValidityDays) * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		SignatureAlgorithm:    x509.SHA256WithRSA,
		DNSNames:              append([]string{}, config.DNSNames...),
		IPAddresses:           append([]net.IP{}, config.IPAddresses...),
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return fmt.Errorf("create certificate: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(certPath, certPEM, 0644); err != nil {
		return fmt.Errorf("write cert: %w", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	if err := os.WriteFile(keyPath, keyPEM, 0600); err != nil {
		return fmt.Errorf("write key: %w", err)
	}
	return nil
}

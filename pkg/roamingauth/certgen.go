package roamingauth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"time"
)

// MaxValidDays requests the longest validity the horizon allows.
const MaxValidDays = math.MaxInt

// MaxDays returns the number of whole days between now and the horizon.
func MaxDays(now time.Time) int {
	d := Horizon.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// GenerateCertificate creates a P-256 key and a self-signed certificate valid
// for validDays and writes both as PEM to path with mode 0600. MaxValidDays is
// clamped to MaxDays. Inputs are validated before anything is written, and a
// file already at path is kept unless the new one was written completely.
func GenerateCertificate(path string, validDays int, subject Subject) error {
	return generateCertificate(path, validDays, subject, time.Now())
}

func generateCertificate(path string, validDays int, subject Subject, now time.Time) error {
	if subject.IsEmpty() {
		return ErrInvalidSubject
	}

	maxDays := MaxDays(now)
	if validDays == MaxValidDays {
		validDays = maxDays
	}
	if validDays <= 0 || validDays > maxDays {
		return fmt.Errorf("%w: got %d, maximum is %d", ErrInvalidDuration, validDays, maxDays)
	}

	if err := validatePath(path); err != nil {
		return err
	}

	// P-256 (prime256v1) with SHA-256 signatures
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate private key: %w", err)
	}

	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	if err != nil {
		return fmt.Errorf("failed to generate serial number: %w", err)
	}

	notBefore := now.UTC()
	template := x509.Certificate{
		SerialNumber:       serialNumber,
		Subject:            subject.name(),
		NotBefore:          notBefore,
		NotAfter:           notBefore.Add(time.Duration(validDays) * 24 * time.Hour),
		SignatureAlgorithm: x509.ECDSAWithSHA256,

		// v3_req: end entity key
		KeyUsage: x509.KeyUsageDigitalSignature |
			x509.KeyUsageContentCommitment |
			x509.KeyUsageKeyEncipherment,
		BasicConstraintsValid: true,
		IsCA:                  false,
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	if err != nil {
		return fmt.Errorf("failed to create certificate: %w", err)
	}

	privateKeyBytes, err := x509.MarshalECPrivateKey(privateKey)
	if err != nil {
		return fmt.Errorf("failed to marshal private key: %w", err)
	}

	return writeAtomic(path, func(w io.Writer) error {
		if err := pem.Encode(w, &pem.Block{Type: "EC PRIVATE KEY", Bytes: privateKeyBytes}); err != nil {
			return fmt.Errorf("failed to write key: %w", err)
		}
		if err := pem.Encode(w, &pem.Block{Type: "CERTIFICATE", Bytes: derBytes}); err != nil {
			return fmt.Errorf("failed to write certificate: %w", err)
		}
		return nil
	})
}

// writeAtomic writes a 0600 temp file next to path and renames it into place.
// A file already at path is only replaced once write succeeded.
func writeAtomic(path string, write func(w io.Writer) error) (err error) {
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create certificate file: %w", err)
	}
	tmp := file.Name()
	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err := file.Chmod(0o600); err != nil {
		return fmt.Errorf("failed to set certificate permissions: %w", err)
	}
	if err := write(file); err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync certificate file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close certificate file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move certificate into place: %w", err)
	}
	return nil
}

// validatePath requires an existing parent directory and a target that is not
// itself a directory.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return fmt.Errorf("%w: %s has no file name", ErrInvalidPath, path)
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, dir)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}

	return nil
}

func (s Subject) name() pkix.Name {
	var name pkix.Name
	name.CommonName = s.CommonName
	if s.Country != "" {
		name.Country = []string{s.Country}
	}
	if s.Province != "" {
		name.Province = []string{s.Province}
	}
	if s.Locality != "" {
		name.Locality = []string{s.Locality}
	}
	if s.Organization != "" {
		name.Organization = []string{s.Organization}
	}
	if s.OrganizationalUnit != "" {
		name.OrganizationalUnit = []string{s.OrganizationalUnit}
	}
	if s.EmailAddress != "" {
		name.ExtraNames = append(name.ExtraNames, pkix.AttributeTypeAndValue{
			Type:  oidEmailAddress,
			Value: s.EmailAddress,
		})
	}
	return name
}

package certs

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileManager_GetOrCreateCertificate(t *testing.T) {
	tests := []struct {
		setup          func(t *testing.T, m *FileManager)
		validateResult func(t *testing.T, m *FileManager, cert tls.Certificate)
		name           string
		errorContains  string
		wantErr        bool
	}{
		{
			name: "creates new certificate when none exists",
			validateResult: func(t *testing.T, _ *FileManager, cert tls.Certificate) {
				t.Helper()
				require.Len(t, cert.Certificate, 1)
				x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
				require.NoError(t, err)
				assert.Equal(t, "localhost", x509Cert.Subject.CommonName)
				assert.Equal(t, []string{"AgriCarbon Dev Server"}, x509Cert.Subject.Organization)
			},
		},
		{
			name: "reuses existing valid certificate",
			setup: func(t *testing.T, m *FileManager) {
				t.Helper()
				_, err := m.GetOrCreateCertificate()
				require.NoError(t, err)
			},
			validateResult: func(t *testing.T, m *FileManager, cert tls.Certificate) {
				t.Helper()
				stored, err := tls.LoadX509KeyPair(m.certFile, m.keyFile)
				require.NoError(t, err)
				assert.Equal(t, stored.Certificate[0], cert.Certificate[0])
			},
		},
		{
			name: "regenerates invalid certificate",
			setup: func(t *testing.T, m *FileManager) {
				t.Helper()
				require.NoError(t, os.MkdirAll(m.certDir, 0o700))
				require.NoError(t, os.WriteFile(m.certFile, []byte("invalid certificate data"), 0o600))
				require.NoError(t, os.WriteFile(m.keyFile, []byte("invalid key data"), 0o600))
			},
			validateResult: func(t *testing.T, _ *FileManager, cert tls.Certificate) {
				t.Helper()
				require.Len(t, cert.Certificate, 1)
			},
		},
		{
			name: "regenerates expired certificate",
			setup: func(t *testing.T, m *FileManager) {
				t.Helper()
				m.now = func() time.Time { return time.Now().Add(-2 * Validity) }
				_, err := m.GetOrCreateCertificate()
				require.NoError(t, err)
				m.now = time.Now
			},
			validateResult: func(t *testing.T, _ *FileManager, cert tls.Certificate) {
				t.Helper()
				x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
				require.NoError(t, err)
				assert.True(t, x509Cert.NotAfter.After(time.Now()))
			},
		},
		{
			name: "fails when certificate directory is a file",
			setup: func(t *testing.T, m *FileManager) {
				t.Helper()
				require.NoError(t, os.MkdirAll(filepath.Dir(m.certDir), 0o700))
				require.NoError(t, os.WriteFile(m.certDir, []byte("not a directory"), 0o600))
			},
			wantErr:       true,
			errorContains: "failed to check certificate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewFileManager(filepath.Join(t.TempDir(), "certs"))
			if tt.setup != nil {
				tt.setup(t, m)
			}

			cert, err := m.GetOrCreateCertificate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)

			if tt.validateResult != nil {
				tt.validateResult(t, m, cert)
			}

			for _, path := range []string{m.certFile, m.keyFile} {
				info, err := os.Stat(path)
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "%s should be owner-only", filepath.Base(path))
			}
		})
	}
}

func TestFileManager_CertificateExists(t *testing.T) {
	m := NewFileManager(t.TempDir())

	exists, err := m.CertificateExists()
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(m.certFile, []byte("cert"), 0o600))
	exists, err = m.CertificateExists()
	require.NoError(t, err)
	assert.False(t, exists, "key file is still missing")

	require.NoError(t, os.WriteFile(m.keyFile, []byte("key"), 0o600))
	exists, err = m.CertificateExists()
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFileManager_verifyCertificate(t *testing.T) {
	m := NewFileManager(t.TempDir())
	cert, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	require.NoError(t, m.verifyCertificate(cert))
	assert.EqualError(t, m.verifyCertificate(tls.Certificate{}), "no certificates found")

	m.now = func() time.Time { return time.Now().Add(Validity + time.Hour) }
	assert.EqualError(t, m.verifyCertificate(cert), "certificate has expired")

	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	assert.EqualError(t, m.verifyCertificate(cert), "certificate not yet valid")
}

func TestCertificateProperties(t *testing.T) {
	m := NewFileManager(t.TempDir())
	cert, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)

	assert.Contains(t, x509Cert.DNSNames, "localhost")
	assert.Len(t, x509Cert.IPAddresses, 2)
	assert.Contains(t, x509Cert.ExtKeyUsage, x509.ExtKeyUsageServerAuth)
	assert.True(t, x509Cert.IsCA)
	assert.Equal(t, x509.ECDSA, x509Cert.PublicKeyAlgorithm)
	assert.InDelta(t, Validity.Hours(), x509Cert.NotAfter.Sub(x509Cert.NotBefore).Hours(), 1)
}

func TestLoadCertPool(t *testing.T) {
	m := NewFileManager(t.TempDir())
	cert, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	pool, err := LoadCertPool(m.CertFile())
	require.NoError(t, err)

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	_, err = leaf.Verify(x509.VerifyOptions{Roots: pool, DNSName: "localhost"})
	require.NoError(t, err)

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCertPool(filepath.Join(t.TempDir(), "nope.crt"))
		require.ErrorContains(t, err, "failed to read CA certificate")
	})

	t.Run("not pem", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.crt")
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
		_, err := LoadCertPool(path)
		require.ErrorContains(t, err, "no certificates found")
	})
}

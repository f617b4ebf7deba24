package tls

import (
	"crypto/x509"
	"encoding/pem"
	"net"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSelfSigned_GeneratesOnce(t *testing.T) {
	fs := afero.NewMemMapFs()

	generated, err := EnsureSelfSigned(fs, "certs/server.crt", "certs/server.key", []string{"localhost", "127.0.0.1"})
	require.NoError(t, err)
	assert.True(t, generated)

	data, err := afero.ReadFile(fs, "certs/server.crt")
	require.NoError(t, err)
	block, _ := pem.Decode(data)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost"}, cert.DNSNames)
	require.Len(t, cert.IPAddresses, 1)
	assert.True(t, cert.IPAddresses[0].Equal(net.ParseIP("127.0.0.1")))

	keyInfo, err := fs.Stat("certs/server.key")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", keyInfo.Mode().Perm().String())

	generated, err = EnsureSelfSigned(fs, "certs/server.crt", "certs/server.key", []string{"localhost"})
	require.NoError(t, err)
	assert.False(t, generated)
}

func TestEnsureSelfSigned_NeedsHostnames(t *testing.T) {
	_, err := EnsureSelfSigned(afero.NewMemMapFs(), "a.crt", "a.key", nil)
	assert.Error(t, err)
}

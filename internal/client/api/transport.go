package api

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// TLSFiles names the PEM files used for https base URLs. All fields are
// optional; CertFile and KeyFile must be set together.
type TLSFiles struct {
	CAFile   string
	CertFile string
	KeyFile  string
}

func (f TLSFiles) empty() bool { return f.CAFile == "" && f.CertFile == "" && f.KeyFile == "" }

// NewHTTPClient builds the http.Client used by Client. A zero timeout
// disables the per-request deadline.
func NewHTTPClient(files TLSFiles, timeout time.Duration) (*http.Client, error) {
	if files.empty() {
		return &http.Client{Timeout: timeout}, nil
	}

	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if files.CAFile != "" {
		caCert, err := os.ReadFile(files.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caPool := x509.NewCertPool()
		if !caPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to parse CA cert")
		}
		tlsCfg.RootCAs = caPool
	}

	if files.CertFile != "" || files.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(files.CertFile, files.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert/key: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsCfg
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

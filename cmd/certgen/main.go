// Package main writes development TLS material for the API stub and the
// console: a CA, a server certificate and a client certificate.
package main

import (
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/atinyakov/ShelterDesk/internal/certgen"
)

type options struct {
	dir      string
	hosts    []string
	client   string
	caCert   string
	caKey    string
	validFor time.Duration
}

func main() {
	var o options
	pflag.StringVar(&o.dir, "dir", "certs", "output directory")
	pflag.StringSliceVar(&o.hosts, "host", []string{"localhost", "127.0.0.1"}, "API stub host names and IPs")
	pflag.StringVar(&o.client, "client", "console", "client certificate common name")
	pflag.StringVar(&o.caCert, "ca-cert", "", "existing CA cert to sign with (optional)")
	pflag.StringVar(&o.caKey, "ca-key", "", "existing CA key to sign with (optional)")
	pflag.DurationVar(&o.validFor, "valid-for", 365*24*time.Hour, "certificate lifetime")
	pflag.Parse()

	if err := generate(o); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Certificates written to %s\n", o.dir)
	fmt.Printf("  apistub --cert %[1]s/server.crt --key %[1]s/server.key --ca %[1]s/ca.crt\n", o.dir)
	fmt.Printf("  console --url https://%[2]s:5000 --ca %[1]s/ca.crt --cert %[1]s/client.crt --key %[1]s/client.key\n", o.dir, o.hosts[0])
}

// generate writes ca.crt, server.crt and client.crt with their keys into
// o.dir. An existing CA is reused when both of its files are given.
func generate(o options) error {
	if len(o.hosts) == 0 {
		return fmt.Errorf("at least one --host is required")
	}
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", o.dir, err)
	}
	path := func(name string) string { return filepath.Join(o.dir, name) }

	var (
		ca  *certgen.Pair
		err error
	)
	if o.caCert != "" && o.caKey != "" {
		ca, err = certgen.Load(o.caCert, o.caKey)
	} else {
		ca, err = certgen.NewCA("ShelterDesk Dev CA", 10*o.validFor)
		if err == nil {
			err = ca.Write(path("ca.crt"), path("ca.key"))
		}
	}
	if err != nil {
		return fmt.Errorf("ca: %w", err)
	}

	server, err := certgen.Issue(ca, o.hosts[0], o.hosts, x509.ExtKeyUsageServerAuth, o.validFor)
	if err != nil {
		return fmt.Errorf("server cert: %w", err)
	}
	if err := server.Write(path("server.crt"), path("server.key")); err != nil {
		return fmt.Errorf("server cert: %w", err)
	}

	client, err := certgen.Issue(ca, o.client, nil, x509.ExtKeyUsageClientAuth, o.validFor)
	if err != nil {
		return fmt.Errorf("client cert: %w", err)
	}
	if err := client.Write(path("client.crt"), path("client.key")); err != nil {
		return fmt.Errorf("client cert: %w", err)
	}
	return nil
}

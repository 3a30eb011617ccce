// Package certs decides between HTTP and HTTPS from the certificate files
// found next to the executable.
package certs

import (
	"os"
	"path/filepath"
)

const (
	CertFileName = "cert.pem"
	KeyFileName  = "key.pem"
)

// Materials holds the TLS certificate and key paths. The zero value means
// plain HTTP.
type Materials struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether both files are present.
func (m Materials) Enabled() bool {
	return m.CertFile != "" && m.KeyFile != ""
}

// Detect returns the TLS materials in dir when both cert.pem and key.pem
// exist. Only existence is checked.
func Detect(dir string) Materials {
	cert := filepath.Join(dir, CertFileName)
	key := filepath.Join(dir, KeyFileName)
	if !fileExists(cert) || !fileExists(key) {
		return Materials{}
	}
	return Materials{CertFile: cert, KeyFile: key}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

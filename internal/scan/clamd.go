// Package scan streams uploads through clamd before they reach the asset
// store. Scanning is optional: an empty address disables it.
package scan

import (
	"errors"
	"fmt"
	"io"

	"github.com/dutchcoders/go-clamd"
)

// ErrInfected marks a rejected upload.
var ErrInfected = errors.New("malicious file detected")

// Scanner wraps a clamd endpoint.
type Scanner struct {
	addr string
}

func NewScanner(addr string) *Scanner {
	return &Scanner{addr: addr}
}

// Enabled reports whether a clamd address is configured.
func (s *Scanner) Enabled() bool {
	return s != nil && s.addr != ""
}

// Scan streams the reader through clamd and fails on any non-OK verdict.
// A disabled scanner accepts everything.
func (s *Scanner) Scan(reader io.Reader) error {
	if !s.Enabled() {
		return nil
	}

	client := clamd.NewClamd(s.addr)

	abort := make(chan bool)
	defer close(abort)

	results, err := client.ScanStream(reader, abort)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}

	for result := range results {
		if result.Status != clamd.RES_OK {
			return ErrInfected
		}
	}
	return nil
}

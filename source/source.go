// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package source

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/dnspulse/dnspulse/types"
)

// defaultServers is the curated resolver list shipped with dnspulse, used
// whenever no endpoint list file is supplied.
//
//go:embed dns_servers.txt
var defaultServers []byte

// unknownProvider labels endpoints appearing before any provider section
// header.
const unknownProvider = "Unknown Provider"

// Load reads an endpoint list in the dns_servers.txt format: lines starting
// with "#" begin a new provider section, lines starting with "//" are
// comments, and every other non-empty line is expected to be an IP address
// literal. Lines that don't parse as an IP address are skipped.
//
// The returned list preserves discovery order, contains each address at most
// once (first occurrence wins, including its provider label), and is capped
// to at most max endpoints.
func Load(r io.Reader, max int) ([]types.Endpoint, error) {
	endpoints := []types.Endpoint{}
	seen := map[string]struct{}{}
	provider := unknownProvider
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "//"):
			continue
		case strings.HasPrefix(line, "#"):
			provider = strings.TrimSpace(line[1:])
			continue
		}
		if net.ParseIP(line) == nil {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		endpoints = append(endpoints, types.Endpoint{
			Address:  line,
			Provider: provider,
		})
		if len(endpoints) >= max {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read endpoint list: %w", err)
	}
	return endpoints, nil
}

// LoadFile loads an endpoint list from the file at the specified path; see
// [Load] for the format.
func LoadFile(path string, max int) ([]types.Endpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read endpoint list: %w", err)
	}
	defer f.Close()
	return Load(f, max)
}

// Default returns up to max endpoints from the embedded list of well-known
// public resolvers.
func Default(max int) []types.Endpoint {
	// The embedded list is known-good, so no error can actually occur here.
	endpoints, _ := Load(bytes.NewReader(defaultServers), max)
	return endpoints
}

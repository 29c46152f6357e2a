// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// Endpoint is a candidate (DNS) server under test: an IP address literal,
// optionally together with the label of the provider operating it. Endpoints
// are immutable once loaded; their identity is the address.
type Endpoint struct {
	Address  string `json:"address"`  // IP address literal of the server.
	Provider string `json:"provider"` // optional provider label, or "".
}

// String returns the endpoint's address.
func (e Endpoint) String() string { return e.Address }

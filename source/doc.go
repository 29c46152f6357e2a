// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package source loads the list of endpoints to scan, either from a text file
or from the embedded list of well-known public resolvers. The loader hands
the probing engine exactly what it expects: an ordered, deduplicated, capped
endpoint list with optional provider labels.
*/
package source

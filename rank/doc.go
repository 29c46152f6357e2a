// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package rank sorts and classifies the completed results of a scan into a
ranked report of best-performing endpoints. Given identical results, the
ranking is deterministic: ties and endpoints without any successful sample
keep their relative discovery order thanks to a stable sort.
*/
package rank

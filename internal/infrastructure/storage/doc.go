// Package storage provides the file persistence capability for Gray Logic
// Node.
//
// The node was designed to run on anything from a Linux SBC to a container,
// so components that persist state depend on the small Files interface
// rather than the os package directly. The OS implementation covers
// host-filesystem deployments; tests substitute in-memory fakes, including
// ones that simulate truncated writes.
package storage

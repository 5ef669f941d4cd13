// Package installer is the runtime-only component of the pipeline: it maps
// the host operating system and CPU architecture to a canonical platform name
// and delegates installation to the package manager for that platform's
// package. It has no state beyond the current run and performs no retries.
package installer

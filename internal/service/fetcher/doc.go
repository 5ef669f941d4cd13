// Package fetcher downloads a compiler release into the staging directory.
//
// It resets the staging directory, fetches the checksum manifest, then pulls
// every referenced archive through a bounded worker pool, verifying SHA-256
// digests as it goes. Individual download failures are reported and skipped;
// only structural failures abort the run.
package fetcher

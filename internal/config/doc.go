// Package config defines pipeline settings shared by the release binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the release URL template, staging and output
// directories, the npm scope, and download concurrency/timeout knobs.
// Every field has a default, so a settings file is optional.
package config

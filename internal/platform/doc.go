// Package platform declares which compiler targets the pipeline can package
// and maps between the three naming schemes involved: release archive name
// tokens (e.g. "Darwin_arm64"), canonical platform keys ("darwin-arm64"),
// and npm os/cpu constraint tags ("darwin"/"arm64").
//
// The descriptor table is fixed at build time and is the single place
// platform support is declared.
package platform

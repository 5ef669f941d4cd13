package npm

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

const (
	// BinaryName is the compiler executable name without OS suffix.
	BinaryName = "hulo"

	// LauncherFilename is the Node entry point shipped in every package.
	LauncherFilename = "hulo.js"

	// ReadmeFilename is the generated package readme.
	ReadmeFilename = "README.md"

	artifactFileMode os.FileMode = 0o644
)

// launcherTemplate spawns the platform binary from bin/, forwarding
// arguments, stdio and the exit code.
//
//nolint:gochecknoglobals // Parsed once at startup.
var launcherTemplate = template.Must(template.New(LauncherFilename).Parse(`#!/usr/bin/env node
const { spawn } = require("child_process");
const { join } = require("path");

const binary = join(__dirname, "bin", "{{.Executable}}");
const child = spawn(binary, process.argv.slice(2), { stdio: "inherit" });

child.on("error", (err) => {
  console.error(err.message);
  process.exit(1);
});
child.on("exit", (code) => process.exit(code === null ? 1 : code));
`))

//nolint:gochecknoglobals // Parsed once at startup.
var readmeTemplate = template.Must(template.New(ReadmeFilename).Parse(`# {{.Name}}

{{.Description}}.

This package ships the prebuilt ` + "`hulo`" + ` binary for one platform and is
installed automatically by the ` + "`hulo`" + ` npm package. You rarely need to
depend on it directly.

- Version: {{.Version}}
- Upstream: https://github.com/hulo-lang/hulo
`))

// launcherData feeds launcherTemplate.
type launcherData struct {
	// Executable is the relocated binary name inside bin/, e.g. "hulo" or "hulo.exe".
	Executable string
}

// readmeData feeds readmeTemplate.
type readmeData struct {
	Name        string
	Description string
	Version     string
}

// WriteLauncher renders the Node launcher stub for the given executable into dir.
func WriteLauncher(dir, executable string) error {
	return renderTemplate(launcherTemplate, filepath.Join(dir, LauncherFilename), launcherData{
		Executable: executable,
	})
}

// WriteReadme renders the package readme into dir.
func WriteReadme(dir, name, description, version string) error {
	return renderTemplate(readmeTemplate, filepath.Join(dir, ReadmeFilename), readmeData{
		Name:        name,
		Description: description,
		Version:     version,
	})
}

func renderTemplate(tmpl *template.Template, path string, data any) error {
	var buf bytes.Buffer

	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), artifactFileMode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

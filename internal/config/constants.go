package config

import "strings"

// Version is reported by `lamb --version`.
const Version = "0.4.0"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".lc", ".lamb"}

// HasSourceExt reports whether path ends in a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// FreshNamePrefix starts every binder name minted during substitution.
// Source identifiers must begin with a lowercase letter, so generated names
// never collide with names a program can write.
const FreshNamePrefix = "Var"

// NilLiteral is the surface token for the empty list.
const NilLiteral = "#"

// ConfigFileName is looked up in the working directory when LAMB_CONFIG is unset.
const ConfigFileName = "lamb.yaml"

// Environment variables
const (
	EnvConfig  = "LAMB_CONFIG"
	EnvNoColor = "NO_COLOR"
	EnvDebug   = "LAMB_DEBUG"
)

// Backend names
const (
	BackendMachine = "machine"
	BackendTree    = "tree"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultServerAddr is where lambd listens unless configured otherwise.
const DefaultServerAddr = ":7878"

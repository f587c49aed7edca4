package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
)

// envPrefix marks a DSN whose value is taken from an environment variable,
// as in "env:DATABASE_DSN".
const envPrefix = "env:"

var envNameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// resolveDSN resolves an "env:NAME" indirection against the supplied
// environment mapping and checks that the result parses as a connection URI.
func resolveDSN(dsn string, env map[string]string) (string, error) {
	if name, ok := strings.CutPrefix(dsn, envPrefix); ok {
		if !envNameRegexp.MatchString(name) {
			return "", Error{Message: fmt.Sprintf("Invalid variable name: %q", name)}
		}
		value, ok := env[name]
		if !ok {
			return "", Error{Message: fmt.Sprintf("Undefined variable: %q", name)}
		}
		dsn = value
	}
	if u, err := url.Parse(dsn); err != nil || u.Scheme == "" {
		return "", Error{Message: fmt.Sprintf("Invalid database DSN: %q", dsn)}
	}
	return dsn, nil
}

// processEnviron returns the process environment as a mapping, the default
// when the caller does not supply one.
func processEnviron() map[string]string {
	environ := os.Environ()
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		if name, value, ok := strings.Cut(entry, "="); ok {
			env[name] = value
		}
	}
	return env
}

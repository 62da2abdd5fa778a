package database

import (
	"fmt"
	"net/url"
)

// SwitchURL returns the admin connection URL rewritten to target another
// database. Credentials, host, and query parameters are preserved; only
// the path changes. Used by switch_connection directives.
func SwitchURL(adminURL, databaseName string) (string, error) {
	u, err := url.Parse(adminURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidDatabaseURL, u.Scheme)
	}

	u.Path = "/" + databaseName

	return u.String(), nil
}

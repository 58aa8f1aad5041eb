package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL joins a server URL and a database name.
// An empty name returns the base URL untouched. sslmode=disable is added unless the URL sets sslmode.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		// Fall back to plain string handling for URLs net/url rejects
		base, query, _ := strings.Cut(baseURL, "?")
		result := strings.TrimRight(base, "/") + "/" + databaseName
		if query == "" {
			query = "sslmode=disable"
		} else if !strings.Contains(query, "sslmode=") {
			query += "&sslmode=disable"
		}
		return result + "?" + query
	}

	u.Path = "/" + databaseName
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

package relay

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildStateBackendFromDSN maps a DSN to a backend:
//
//	""                      -> nil (memory-only store)
//	"memory:"               -> InMemoryStateBackend
//	"file:/path" or a path  -> JSONFileStateBackend
//	"sqlite:/path"          -> SQLiteStateBackend
//	"postgres://..."        -> PostgresStateBackend
func BuildStateBackendFromDSN(dsn string) (StateBackend, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, nil
	}
	parsed, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}
	scheme := strings.ToLower(strings.TrimSpace(parsed.Scheme))
	switch scheme {
	case "", "file":
		path, pathErr := dsnPath(parsed, dsn)
		if pathErr != nil {
			return nil, pathErr
		}
		return NewJSONFileStateBackend(path), nil
	case "memory", "mem", "inmem":
		return NewInMemoryStateBackend(), nil
	case "postgres", "postgresql":
		return NewPostgresStateBackend(dsn)
	case "sqlite":
		path, pathErr := dsnPath(parsed, dsn)
		if pathErr != nil {
			return nil, pathErr
		}
		return NewSQLiteStateBackend(path)
	case "mysql":
		return nil, fmt.Errorf("%w: state backend %s", ErrNotImplemented, scheme)
	default:
		return nil, fmt.Errorf("unsupported state backend scheme: %s", scheme)
	}
}

func dsnPath(parsed *url.URL, raw string) (string, error) {
	if parsed.Opaque != "" {
		return parsed.Opaque, nil
	}
	if parsed.Path != "" {
		path := parsed.Path
		if parsed.Host != "" {
			path = parsed.Host + path
		}
		return path, nil
	}
	if parsed.Host != "" {
		return parsed.Host, nil
	}
	if parsed.Scheme == "" {
		return raw, nil
	}
	return "", fmt.Errorf("%w: empty path in DSN %q", ErrInvalidInput, raw)
}

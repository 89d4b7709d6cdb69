package guard

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrRouteNotFound is returned when a path matches no route in the table.
var ErrRouteNotFound = errors.New("route not found")

//go:embed routes.yaml
var defaultRoutes []byte

// Route is one entry of the route table. Path segments starting with ":"
// match any single segment.
type Route struct {
	Name  string   `yaml:"name"`
	Path  string   `yaml:"path"`
	Auth  bool     `yaml:"auth,omitempty"`
	Roles []string `yaml:"roles,omitempty"`
}

// Guarded returns true if navigating to the route runs the guard.
func (r Route) Guarded() bool {
	return r.Auth || len(r.Roles) > 0
}

// Table is an ordered list of routes; the first match wins.
type Table struct {
	Routes []Route `yaml:"routes"`
}

// DefaultTable returns the built-in storefront route table.
func DefaultTable() (*Table, error) {
	return ParseTable(defaultRoutes)
}

// LoadTable reads a route table from a YAML file. An empty path returns the
// built-in table.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes: %w", err)
	}

	return ParseTable(data)
}

// ParseTable decodes a YAML route table.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse routes: %w", err)
	}

	for i, r := range t.Routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("route %d (%s): path %q must start with /", i, r.Name, r.Path)
		}
	}

	return &t, nil
}

// Match finds the route for path and returns its ":name" parameters.
func (t *Table) Match(path string) (Route, map[string]string, error) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	want := split(path)

	for _, r := range t.Routes {
		pattern := split(r.Path)
		if len(pattern) != len(want) {
			continue
		}

		params := map[string]string{}
		ok := true
		for i, seg := range pattern {
			if name, isParam := strings.CutPrefix(seg, ":"); isParam {
				params[name] = want[i]
				continue
			}
			if seg != want[i] {
				ok = false
				break
			}
		}
		if ok {
			return r, params, nil
		}
	}

	return Route{}, nil, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Route keys of the per-client limiter.
const (
	RouteBlogMain      = "blog_main"
	RouteCreatePost    = "create_post"
	RouteGetPost       = "get_post"
	RouteUpdatePost    = "update_post"
	RouteDeletePost    = "delete_post"
	RouteAddLike       = "add_like"
	RouteCreateSession = "create_session"
)

// Limit is "at most Limit requests per Window".
type Limit struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

type RateLimits struct {
	Routes map[string]Limit `yaml:"routes"`
	// GlobalLike caps likes across all clients combined.
	GlobalLike Limit `yaml:"global_like"`
}

func DefaultRateLimits() RateLimits {
	return RateLimits{
		Routes: map[string]Limit{
			RouteBlogMain:      {Limit: 30, Window: time.Minute},
			RouteCreatePost:    {Limit: 5, Window: time.Minute},
			RouteGetPost:       {Limit: 50, Window: time.Minute},
			RouteUpdatePost:    {Limit: 10, Window: time.Minute},
			RouteDeletePost:    {Limit: 3, Window: time.Minute},
			RouteAddLike:       {Limit: 10, Window: time.Minute},
			RouteCreateSession: {Limit: 5, Window: time.Minute},
		},
		GlobalLike: Limit{Limit: 10, Window: time.Hour},
	}
}

// LoadRateLimits reads a YAML policy and overlays it on the defaults.
// Entries absent from the file keep their default.
func LoadRateLimits(path string) (RateLimits, error) {
	limits := DefaultRateLimits()

	raw, err := os.ReadFile(path)
	if err != nil {
		return limits, err
	}

	var file RateLimits
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return limits, fmt.Errorf("rate limits %s: %w", path, err)
	}

	for route, l := range file.Routes {
		if _, known := limits.Routes[route]; !known {
			return limits, fmt.Errorf("rate limits %s: unknown route %q", path, route)
		}
		if err := l.validate(route); err != nil {
			return limits, fmt.Errorf("rate limits %s: %w", path, err)
		}
		limits.Routes[route] = l
	}
	if file.GlobalLike != (Limit{}) {
		if err := file.GlobalLike.validate("global_like"); err != nil {
			return limits, fmt.Errorf("rate limits %s: %w", path, err)
		}
		limits.GlobalLike = file.GlobalLike
	}

	return limits, nil
}

func (l Limit) validate(name string) error {
	if l.Limit <= 0 || l.Window <= 0 {
		return fmt.Errorf("%s: limit and window must be positive", name)
	}
	return nil
}

package environment

import "context"

// Environment represents the application environment tag.
type Environment string

const (
	// Development for local development.
	Development Environment = "development"
	// Staging for pre-production environments.
	Staging Environment = "staging"
	// Production for production deployments.
	Production Environment = "production"
)

// Parse normalizes an environment string. Short forms "dev", "stage" and
// "prod" are accepted; anything unrecognized maps to Development.
func Parse(s string) Environment {
	switch s {
	case string(Production), "prod":
		return Production
	case string(Staging), "stage":
		return Staging
	default:
		return Development
	}
}

type contextKey struct{}

// WithContext adds the environment tag to the context.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves the environment tag from the context.
// Returns an empty Environment when none is set.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

// IsProduction reports whether the context carries the production tag.
func IsProduction(ctx context.Context) bool {
	return FromContext(ctx) == Production
}

// IsDevelopment reports whether the context carries the development tag.
func IsDevelopment(ctx context.Context) bool {
	return FromContext(ctx) == Development
}

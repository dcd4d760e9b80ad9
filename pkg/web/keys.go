package web

import "context"

type apiVersionKey struct{}

// WithAPIVersion adds the negotiated API version to the context.
func WithAPIVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, apiVersionKey{}, version)
}

// GetAPIVersion retrieves the negotiated API version from the context.
// Returns the version and a boolean indicating whether it was found.
func GetAPIVersion(ctx context.Context) (string, bool) {
	version, ok := ctx.Value(apiVersionKey{}).(string)
	return version, ok
}

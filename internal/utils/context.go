package utils

import "context"

// GetString reads a string value off the context without panicking on
// absent or mistyped keys.
func GetString(ctx context.Context, key any) (string, bool) {
	v := ctx.Value(key)
	s, ok := v.(string)
	return s, ok
}

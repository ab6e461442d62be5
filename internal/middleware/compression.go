package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Compression returns a middleware that gzips responses for clients that
// accept it. Paths with one of the excluded prefixes are sent as is; JPEG
// output does not shrink under gzip.
func Compression(excludedPrefixes ...string) gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths(excludedPrefixes))
}

package middleware

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

const basicSchemePrefix = "Basic "

// RequiresAuth reports whether a request path is subject to authentication
// given the excluded (public) paths. An empty path or an empty exclusion list
// never requires authentication. Paths and patterns are compared in their
// trailing-slash form, and a pattern ending in '*' matches by prefix, so
// "/api/*" covers "/api/users" and "/api" alike.
func RequiresAuth(path string, excluded []string) bool {
	if path == "" || len(excluded) == 0 {
		return false
	}

	normalized := ensureTrailingSlash(path)
	for _, pattern := range excluded {
		if pattern == "" {
			continue
		}

		if strings.HasSuffix(pattern, "*") {
			if strings.HasPrefix(normalized, pattern[:len(pattern)-1]) {
				return false
			}

			continue
		}

		if normalized == ensureTrailingSlash(pattern) {
			return false
		}
	}

	return true
}

func ensureTrailingSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}

	return p + "/"
}

// ExtractBasicCredentials decodes an Authorization header value of the form
// "Basic <base64(user:password)>". The scheme prefix is case-sensitive and the
// payload splits on the first colon only, so passwords may contain colons.
// Any malformed input yields ok == false.
func ExtractBasicCredentials(header string) (user, password string, ok bool) {
	if !strings.HasPrefix(header, basicSchemePrefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(basicSchemePrefix):])
	if err != nil {
		return "", "", false
	}
	if !utf8.Valid(decoded) {
		return "", "", false
	}

	user, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}

	return user, password, true
}

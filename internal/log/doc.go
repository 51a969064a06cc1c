// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// Visited URLs are private data and regularly carry credentials: basic-auth
// userinfo, OAuth codes, session identifiers in the query string. The
// SecureHandler therefore sanitizes:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (passwords, tokens, keys)
//   - Session identifiers and authentication tokens
//   - Userinfo and sensitive query parameters of any URL inside a string
//     or error value
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Info("tab checked",
//	    "url", "https://user:pw@example.com/?code=abc", // userinfo and code are masked
//	)
//	slog.SetDefault(logger)
package log

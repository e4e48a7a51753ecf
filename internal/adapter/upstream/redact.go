package upstream

import (
	"log/slog"
	"net/url"
	"regexp"
)

// Provider credentials travel in query strings, so nothing that reaches a log
// line may carry one.
var queryRe = regexp.MustCompile(`\?[^\s"]*`)

func stripQuery(s string) string {
	return queryRe.ReplaceAllString(s, "")
}

// redactingLogger adapts slog to retryablehttp.LeveledLogger and strips query
// strings from logged URLs and errors.
type redactingLogger struct {
	logger *slog.Logger
}

func (l redactingLogger) Error(msg string, kv ...any) { l.logger.Error(msg, redact(kv)...) }
func (l redactingLogger) Warn(msg string, kv ...any)  { l.logger.Warn(msg, redact(kv)...) }
func (l redactingLogger) Info(msg string, kv ...any)  { l.logger.Info(msg, redact(kv)...) }
func (l redactingLogger) Debug(msg string, kv ...any) { l.logger.Debug(msg, redact(kv)...) }

func redact(kv []any) []any {
	out := make([]any, len(kv))
	for i, v := range kv {
		switch v := v.(type) {
		case string:
			out[i] = stripQuery(v)
		case *url.URL:
			u := *v
			u.RawQuery = ""
			out[i] = u.String()
		case error:
			out[i] = stripQuery(v.Error())
		default:
			out[i] = v
		}
	}
	return out
}

// requestError reports a transport failure without the request's query string.
type requestError struct {
	provider string
	err      error
}

func (e *requestError) Error() string {
	return e.provider + " request: " + stripQuery(e.err.Error())
}

func (e *requestError) Unwrap() error { return e.err }

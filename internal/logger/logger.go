package logger

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func Setup(dev bool) zerolog.Logger {
	var logger zerolog.Logger
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Caller().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Stack().Logger()
	}

	return logger
}

var _ http.RoundTripper = (*RoundTripper)(nil)

// RoundTripper logs every outgoing storefront API call. Successful calls log
// at debug, 4xx/5xx at warn and transport failures at error.
type RoundTripper struct {
	logger zerolog.Logger
	next   http.RoundTripper
}

// NewRoundTripper wraps next; a nil next uses http.DefaultTransport.
func NewRoundTripper(logger zerolog.Logger, next http.RoundTripper) *RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &RoundTripper{logger: logger, next: next}
}

func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()

	l := rt.logger.With().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get("X-Request-Id")).
		Logger()

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		l.Error().
			Err(err).
			Dur("duration", time.Since(started)).
			Msg("api call")

		return resp, err
	}

	ev := l.Debug()
	if resp.StatusCode >= http.StatusBadRequest {
		ev = l.Warn()
	}
	ev.Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("api call")

	return resp, nil
}

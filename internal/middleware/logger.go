package middleware

import (
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"wireserve/internal/pipeline"
	"wireserve/internal/request"
	"wireserve/internal/response"
	"wireserve/internal/wire"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoggerConfig mirrors bolt's LoggerConfig: where to write, which format,
// and which paths to skip (health checks, metrics scrapes).
type LoggerConfig struct {
	Output    io.Writer
	Format    string // "json" or "text"
	SkipPaths []string
}

// DefaultLoggerConfig writes structured JSON lines to stdout and skips
// nothing.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{Output: os.Stdout, Format: "json"}
}

// logEntry is one structured access-log line.
type logEntry struct {
	Time       string  `json:"time"`
	Method     string  `json:"method"`
	Path       string  `json:"path"`
	Status     int     `json:"status"`
	DurationMS float64 `json:"duration_ms"`
}

// Logger returns access-log middleware applying DefaultLoggerConfig.
func Logger() pipeline.NormalFunc {
	return LoggerWithConfig(DefaultLoggerConfig())
}

// LoggerWithConfig returns access-log middleware for the given
// configuration. Status is captured via Response.OnSend, since Response
// exposes no status getter; next() returns only after the downstream chain
// (including the final handler) has run, so the line is written then.
func LoggerWithConfig(config LoggerConfig) pipeline.NormalFunc {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Format == "" {
		config.Format = "json"
	}
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}

	return func(req *request.Request, res *response.Response, next pipeline.Next) {
		if skip[req.Path] {
			next(nil)
			return
		}

		start := time.Now()
		status := 0
		prevOnSend := res.OnSend
		res.OnSend = func(code int) {
			status = code
			if prevOnSend != nil {
				prevOnSend(code)
			}
		}

		next(nil)
		writeLogLine(config, req, status, time.Since(start))
	}
}

func writeLogLine(config LoggerConfig, req *request.Request, status int, dur time.Duration) {
	if status == 0 {
		status = 200
	}
	if config.Format == "text" {
		io.WriteString(config.Output, req.Method()+" "+req.Path+" "+wire.Phrase(status)+" "+dur.String()+"\n")
		return
	}
	entry := logEntry{
		Time:       time.Now().UTC().Format(time.RFC3339),
		Method:     req.Method(),
		Path:       req.Path,
		Status:     status,
		DurationMS: float64(dur.Microseconds()) / 1000.0,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	config.Output.Write(append(line, '\n'))
}

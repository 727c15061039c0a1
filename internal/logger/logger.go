package logger

import (
	"encoding/json"
	"log"
	"os"
	"regexp"
	"time"
)

type LogLevel string

const (
	InfoLevel  LogLevel = "INFO"
	ErrorLevel LogLevel = "ERROR"
	DebugLevel LogLevel = "DEBUG"
)

// LogEntry describes the structure of a log message
type LogEntry struct {
	Time      string   `json:"time"`
	Level     LogLevel `json:"level"`
	Module    string   `json:"module,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
	Message   string   `json:"message"`
	Error     string   `json:"error,omitempty"`
}

// Logger is a centralized structured logger. Output goes to stderr so it
// never interleaves with what the terminal views print.
type Logger struct {
	out *log.Logger
}

// New creates a new Logger
func New() *Logger {
	return &Logger{
		out: log.New(os.Stderr, "", 0),
	}
}

var (
	bearerRegex = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/-]+=*`)
	jwtRegex    = regexp.MustCompile(`eyJ[^\s"]+`)
	passRegex   = regexp.MustCompile(`(?i)(password=)[^&\s"]+`)
)

// Anonymize strips credentials before they reach a log line (bearer headers,
// raw JWTs, form-encoded passwords).
func Anonymize(s string) string {
	s = bearerRegex.ReplaceAllString(s, "Bearer [REDACTED_TOKEN]")
	s = jwtRegex.ReplaceAllString(s, "[REDACTED_TOKEN]")
	s = passRegex.ReplaceAllString(s, "${1}[REDACTED]")
	return s
}

// internal log function
func (l *Logger) log(module string, level LogLevel, requestID, msg string, err error) {
	entry := LogEntry{
		Time:      time.Now().Format(time.RFC3339),
		Level:     level,
		Module:    module,
		RequestID: requestID,
		Message:   Anonymize(msg),
	}
	if err != nil {
		entry.Error = Anonymize(err.Error())
	}
	data, _ := json.Marshal(entry)
	l.out.Println(string(data))
}

// --- Convenient methods ---
func (l *Logger) Info(module, msg string) {
	l.log(module, InfoLevel, "", msg, nil)
}

func (l *Logger) Debug(module, msg string) {
	l.log(module, DebugLevel, "", msg, nil)
}

func (l *Logger) Error(module, msg string, err error) {
	l.log(module, ErrorLevel, "", msg, err)
}

// Request logs a line correlated with an outgoing request ID.
func (l *Logger) Request(module, requestID, msg string) {
	l.log(module, InfoLevel, requestID, msg, nil)
}

// RequestError logs a failed request correlated with its request ID.
func (l *Logger) RequestError(module, requestID, msg string, err error) {
	l.log(module, ErrorLevel, requestID, msg, err)
}

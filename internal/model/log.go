package model

import "time"

// LogLevel mirrors the syslog-style levels written by the consumer.
type LogLevel int

const (
	LogLevelDebug    LogLevel = 10
	LogLevelInfo     LogLevel = 20
	LogLevelWarning  LogLevel = 30
	LogLevelError    LogLevel = 40
	LogLevelCritical LogLevel = 50
)

// LogComponent identifies the subsystem that wrote a log row.
type LogComponent int

const (
	LogComponentConsumer LogComponent = 1
	LogComponentMail     LogComponent = 2
	LogComponentAPI      LogComponent = 3
)

// LogEntry is a single row of the audit log.
type LogEntry struct {
	ID        int64
	Group     string
	Message   string
	Level     LogLevel
	Component LogComponent
	Created   time.Time
	Modified  time.Time
}

// LogGroup is the log as exposed over HTTP: all rows sharing a group folded
// into one record stamped with the latest modification time.
type LogGroup struct {
	Group    string    `json:"group"`
	Time     time.Time `json:"time"`
	Messages string    `json:"messages"`
}

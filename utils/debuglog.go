// Package utils provides ambient helpers — currently structured logging —
// around the telnet engine, in the same spirit as moodclient-telnet's own
// utils package. The demo listener lives in cmd/mudtelnetd.
package utils

import (
	"context"
	"log/slog"

	"github.com/cannibalvox/mudtelnet"
)

// DebugLogConfig selects, per event category, the slog.Level at which that
// category is logged. NewDebugLog subscribes to every category regardless
// of its level; no level value turns a category off, so whether a record
// appears depends only on the logger's handler.
type DebugLogConfig struct {
	ErrorLevel            slog.Level
	LineLevel             slog.Level
	OutboundDataLevel     slog.Level
	OutboundMessageLevel  slog.Level
	TelOptEventLevel      slog.Level
	CapabilityChangeLevel slog.Level
}

// DefaultDebugLogConfig logs errors at Error, capability changes at Info,
// and telopt events and line/outbound traffic at Debug — a reasonable default for
// local development, mirroring the teacher's own default config shape.
func DefaultDebugLogConfig() DebugLogConfig {
	return DebugLogConfig{
		ErrorLevel:            slog.LevelError,
		LineLevel:             slog.LevelDebug,
		OutboundDataLevel:     slog.LevelDebug,
		OutboundMessageLevel:  slog.LevelDebug,
		TelOptEventLevel:      slog.LevelDebug,
		CapabilityChangeLevel: slog.LevelInfo,
	}
}

// DebugLog subscribes to a connection's event hooks and logs each one
// through a *slog.Logger at its configured level.
type DebugLog struct {
	log    *slog.Logger
	config DebugLogConfig
}

// NewDebugLog registers a DebugLog against conn's event hooks.
func NewDebugLog(conn *telnet.Connection, log *slog.Logger, config DebugLogConfig) *DebugLog {
	d := &DebugLog{log: log, config: config}

	hooks := conn.Hooks()
	hooks.Error.Register(d.logError)
	hooks.Line.Register(d.logLine)
	hooks.OutboundData.Register(d.logOutboundData)
	hooks.OutboundMessage.Register(d.logOutboundMessage)
	hooks.TelOptEvent.Register(d.logTelOptEvent)
	hooks.CapabilityChange.Register(d.logCapabilityChange)

	return d
}

func (d *DebugLog) logError(e telnet.ErrorEvent) {
	d.log.Log(context.Background(), d.config.ErrorLevel, "telnet task error",
		"task", e.TaskName, "fatal", e.Fatal, "error", e.Err)
}

func (d *DebugLog) logLine(e telnet.LineEvent) {
	d.log.Log(context.Background(), d.config.LineLevel, "telnet line", "text", e.Text)
}

func (d *DebugLog) logOutboundData(e telnet.OutboundDataEvent) {
	d.log.Log(context.Background(), d.config.OutboundDataLevel, "telnet outbound data", "len", len(e.Bytes))
}

func (d *DebugLog) logOutboundMessage(e telnet.OutboundMessageEvent) {
	d.log.Log(context.Background(), d.config.OutboundMessageLevel, "telnet outbound message", "message", e.Message.String())
}

func (d *DebugLog) logTelOptEvent(e telnet.TelOptEvent) {
	d.log.Log(context.Background(), d.config.TelOptEventLevel, "telnet option event",
		"option", e.Option, "event", e.Event)
}

func (d *DebugLog) logCapabilityChange(e telnet.CapabilityChangeEvent) {
	d.log.Log(context.Background(), d.config.CapabilityChangeLevel, "telnet capability change",
		"session", e.Capabilities.SessionName, "color", e.Capabilities.Color.String())
}

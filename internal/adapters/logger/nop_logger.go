package logger

import "github.com/baditaflorin/go_slot_normalizer/internal/ports"

// NopLogger discards every message.
type NopLogger struct{}

// NewNopLogger returns a logger that writes nothing.
func NewNopLogger() ports.Logger { return NopLogger{} }

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Close() error                 { return nil }

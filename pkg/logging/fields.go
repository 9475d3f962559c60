package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Component field helpers for common component names
func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

// Domain field helpers

func PartyID(id string) Field {
	return String("party_id", id)
}

func EdgeID(id string) Field {
	return String("edge_id", id)
}

func FileID(id string) Field {
	return String("file_id", id)
}

func SessionID(id string) Field {
	return String("session_id", id)
}

func RecordCount(n int) Field {
	return Int("record_count", n)
}

func NodeCount(n int) Field {
	return Int("node_count", n)
}

func EdgeCount(n int) Field {
	return Int("edge_count", n)
}

func WindowMs(startMs, endMs int64) Field {
	return Any("window_ms", [2]int64{startMs, endMs})
}

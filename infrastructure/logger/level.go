package logger

import "strings"

// Level is the minimum severity a logger or writer lets through.
type Level uint32

// Levels in increasing severity. LevelOff silences a logger.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

// levelNames holds the tag printed in entries and the long name accepted
// by LevelFromString, indexed by Level.
var levelNames = [...]struct{ tag, name string }{
	{"TRC", "trace"},
	{"DBG", "debug"},
	{"INF", "info"},
	{"WRN", "warn"},
	{"ERR", "error"},
	{"CRT", "critical"},
	{"OFF", "off"},
}

// LevelFromString accepts a long name or a tag, case-insensitively. Unknown
// input yields LevelInfo and false.
func LevelFromString(s string) (Level, bool) {
	for level, names := range levelNames {
		if strings.EqualFold(s, names.name) || strings.EqualFold(s, names.tag) {
			return Level(level), true
		}
	}
	return LevelInfo, false
}

func (l Level) String() string {
	if l >= LevelOff {
		return levelNames[LevelOff].tag
	}
	return levelNames[l].tag
}

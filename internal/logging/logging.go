// Package logging defines the leveled [log/slog] vocabulary shared by the library and the
// command-line tool.
package logging

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

const (
	LevelTrace   = slog.LevelDebug - 4 // -8
	LevelDebug   = slog.LevelDebug     // -4
	LevelVerbose = slog.LevelDebug + 2 // -2
	LevelInfo    = slog.LevelInfo      // 0
	LevelNotice  = slog.LevelInfo + 2  // 2
	LevelWarn    = slog.LevelWarn      // 4
	LevelError   = slog.LevelError     // 8
	LevelFatal   = slog.LevelError + 4 // 12
)

var levelsByName = map[string]slog.Level{
	"trace":   LevelTrace,
	"debug":   LevelDebug,
	"verbose": LevelVerbose,
	"info":    LevelInfo,
	"notice":  LevelNotice,
	"warn":    LevelWarn,
	"error":   LevelError,
	"fatal":   LevelFatal,
}

// StringToLevel maps a level name (case-insensitive) to its [slog.Level].
func StringToLevel(arg string) (slog.Level, error) {
	if lvl, ok := levelsByName[strings.ToLower(arg)]; ok {
		return lvl, nil
	}
	return 0, fmt.Errorf("invalid log level; expected one of: %v",
		strings.Join(slices.Sorted(maps.Keys(levelsByName)), ", "))
}

// BumpLevel returns lvl bumped to the next higher (more severe) or lower (less severe)
// named level.
func BumpLevel(lvl slog.Level, lower bool) slog.Level {
	// The named levels are symmetric around 0 and 4 apart, except the three levels in
	// [LevelVerbose, LevelNotice] which are 2 apart.
	var orient slog.Level = 1
	if lower {
		orient = -1
		lvl *= orient
	}
	var adj slog.Level = 4
	if LevelDebug+2 <= lvl && lvl < LevelWarn+2 {
		adj = 2
	}
	lvl += adj
	lvl *= orient
	return lvl
}

package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const lineTimeFormat = "2006-01-02 15:04:05,000"

// NewLineWriter renders zerolog events as
// "timestamp - logger - LEVEL - message key=value".
func NewLineWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: lineTimeFormat,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			NameField,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{NameField},
		FormatLevel: func(v interface{}) string {
			return "- " + levelName(v)
		},
		FormatMessage: func(v interface{}) string {
			return "- " + stringOr(v, "")
		},
		FormatPartValueByName: func(v interface{}, name string) string {
			if name == NameField {
				return "- " + stringOr(v, "root")
			}
			return stringOr(v, "")
		},
	}
}

func levelName(v interface{}) string {
	s, _ := v.(string)
	switch s {
	case "":
		return "NOTSET"
	case zerolog.LevelWarnValue:
		return "WARNING"
	case zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return "CRITICAL"
	}
	return strings.ToUpper(s)
}

func stringOr(v interface{}, def string) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return def
	default:
		return fmt.Sprint(s)
	}
}

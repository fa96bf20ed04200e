/*
 *   Copyright 2023 Martin Proffitt <mproffitt@choclab.net>
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 */
package logger

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Logger is the logging surface used across sealer. Tests inject their own.
type Logger interface {
	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	Writer() io.Writer
	SetWriter(io.Writer)
}

type logger struct {
	*log.Logger
}

// NewLogger returns a new Logger instance backed by Logrus.
func NewLogger(level uint32) Logger {
	l := log.New()
	l.SetLevel(log.Level(level))
	l.Formatter = &log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
	return &logger{l}
}

// Discard returns a logger that drops everything below Fatal
func Discard() Logger {
	l := NewLogger(uint32(log.FatalLevel))
	l.SetWriter(io.Discard)
	return l
}

// ParseLevel maps a level name such as "debug" or "warn" onto the numeric
// level NewLogger expects.
func ParseLevel(name string) (uint32, error) {
	if name == "" {
		return uint32(log.InfoLevel), nil
	}
	level, err := log.ParseLevel(strings.ToLower(name))
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return uint32(level), nil
}

func (l *logger) Writer() io.Writer {
	return l.Out
}

func (l *logger) SetWriter(writer io.Writer) {
	l.Out = writer
}

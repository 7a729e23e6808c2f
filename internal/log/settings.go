// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"io"
	"os"
)

type settings struct {
	writer  io.Writer
	level   *Level
	format  *Format
	caller  callerSettings
	context []contextKeyValues
}

type contextKeyValues struct {
	key    string
	values []string
}

func newSettings(options []Option) (settings settings) {
	for _, option := range options {
		option(&settings)
	}
	return settings
}

// mergeWith sets values for each unset field of s
// from the other settings given.
func (s *settings) mergeWith(other settings) {
	if s.writer == nil {
		s.writer = other.writer
	}

	if s.level == nil && other.level != nil {
		value := *other.level
		s.level = &value
	}

	if s.format == nil && other.format != nil {
		value := *other.format
		s.format = &value
	}

	s.caller.mergeWith(other.caller)

	// Parent context key values come first, then the child ones.
	newContext := make([]contextKeyValues, 0, len(other.context)+len(s.context))
	for _, kv := range other.context {
		newContext = append(newContext, contextKeyValues{
			key:    kv.key,
			values: append([]string(nil), kv.values...),
		})
	}

	for _, kv := range s.context {
		merged := false
		for i := range newContext {
			if newContext[i].key == kv.key {
				newContext[i].values = append(newContext[i].values, kv.values...)
				merged = true
				break
			}
		}
		if !merged {
			newContext = append(newContext, kv)
		}
	}

	if len(newContext) > 0 {
		s.context = newContext
	}
}

func (s *settings) setDefaults() {
	if s.writer == nil {
		s.writer = os.Stdout
	}

	if s.level == nil {
		value := Info
		s.level = &value
	}

	if s.format == nil {
		value := FormatConsole
		s.format = &value
	}

	s.caller.setDefaults()
}

// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

// Format is the format of the logger.
type Format uint8

const (
	// FormatConsole is the console format.
	FormatConsole Format = iota
)

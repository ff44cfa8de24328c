// SPDX-License-Identifier: EPL-2.0

//go:build !(linux || darwin)

package main

import "io"

func isTerminal(io.Writer) bool { return false }

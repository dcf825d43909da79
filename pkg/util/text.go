// pkg/util/text.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"hash/fnv"
	"io"
	"strings"
)

func HashString64(s string) uint64 {
	hash := fnv.New64a()
	io.Copy(hash, strings.NewReader(s))
	return hash.Sum64()
}

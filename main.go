// Copyright 2025 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/angiedev/schoolfinder/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"github.com/specialistvlad/framecore/internal/registry"
	"github.com/specialistvlad/framecore/modules/coroutine"
	"github.com/specialistvlad/framecore/modules/fanout"
	"github.com/specialistvlad/framecore/modules/print"
	"github.com/specialistvlad/framecore/modules/sleep"
	"github.com/specialistvlad/framecore/modules/spin"
)

// coreModules is the definitive list of all work kinds that are compiled
// into the framecore binary.
var coreModules = []registry.Module{
	&sleep.Module{},
	&spin.Module{},
	&fanout.Module{},
	&coroutine.Module{},
	&print.Module{},
}

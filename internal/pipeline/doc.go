// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package pipeline loads declarative pass files and turns them into AddPass
// calls on a frame graph.
//
// A pass file is HCL:
//
//	pass "physics" {
//	  reads    = ["velocity"]
//	  writes   = ["transform"]
//	  signal   = ["sim"]
//	  enabled  = frame % 2 == 0
//
//	  work "spin" {
//	    duration = "200us"
//	  }
//	}
//
// Resource names become framegraph.Named identities, so hazards between
// passes follow from the reads and writes lists exactly as they would for
// passes registered in Go. The work block is decoded into the input struct
// of the registered work kind every frame, with frame, pass and num_cpu in
// scope.
package pipeline

/*
Package walkthrough plays step-by-step animated explanations of network
communication patterns (polling, long polling, WebSockets, server sent events).

A module is a fixed timeline of steps. Each step tags which side of the
diagram is active and may carry a side effect that mutates a small in-memory
demo dataset. A Player walks the timeline either on a timer (Play) or by
manual navigation (Next, Prev, GoTo) and guarantees that each effect fires at
most once per session, whichever way a step is reached.

# Usage

Modules come from YAML or JSON definitions through a ports.ModuleLoader, or
from Go code via the dsl package.

	package main

	import (
		"log"

		"github.com/aretw0/walkthrough"
		"github.com/aretw0/walkthrough/pkg/adapters/file"
		"github.com/aretw0/walkthrough/pkg/domain"
	)

	func main() {
		player, err := walkthrough.Open(file.New("./modules"), "polling",
			walkthrough.WithLifecycleHooks(domain.LifecycleHooks{
				OnChange: func(s domain.Snapshot) {
					log.Printf("step %d (%s) highlight=%s items=%v", s.Index, s.Label, s.Highlight, s.Values())
				},
			}),
		)
		if err != nil {
			log.Fatal(err)
		}

		player.Play()
		// ...
		player.Reset()
	}

Rejected operations are silent no-ops that return false; construction errors
wrap the sentinel errors of the domain package.
*/
package walkthrough

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gitlab.com/tinyland/lab/link-pulse/cache"
	"gitlab.com/tinyland/lab/link-pulse/status"
)

// snapshotHealth describes one cached snapshot's freshness.
type snapshotHealth struct {
	Present bool   `json:"present"`
	Fresh   bool   `json:"fresh"`
	Age     string `json:"age,omitempty"`
	Level   string `json:"level"`
	Reason  string `json:"reason,omitempty"`
}

// healthOrder fixes the report line order.
var healthOrder = []string{networkSnapshotKey, wifiSnapshotKey, systemSnapshotKey}

// runHealthCheck reports the freshness of every cached snapshot plus the
// evaluated verdict. Returns exit code 0 when every snapshot is fresh, 1
// when any is stale or missing or the cache is disabled.
func runHealthCheck(store *cache.Store, jsonOutput bool) int {
	if store == nil {
		if jsonOutput {
			fmt.Println(`{"status":"disabled","error":"snapshot cache is disabled"}`)
		} else {
			fmt.Fprintln(os.Stderr, "snapshot cache is disabled")
		}
		return 1
	}

	network, wifi, system := cachedStates(store)
	health := status.NewEvaluator(status.DefaultEvaluatorConfig()).Evaluate(network, wifi, system)

	snapshots := map[string]snapshotHealth{
		networkSnapshotKey: describeSnapshot(store, networkSnapshotKey, network != nil),
		wifiSnapshotKey:    describeSnapshot(store, wifiSnapshotKey, wifi != nil),
		systemSnapshotKey:  describeSnapshot(store, systemSnapshotKey, system != nil),
	}

	// Component names match the snapshot keys, so the evaluator's verdicts
	// fold straight in.
	for _, c := range health.Components {
		if entry, ok := snapshots[c.Component]; ok {
			entry.Level = c.Level.String()
			entry.Reason = c.Reason
			snapshots[c.Component] = entry
		}
	}

	allFresh := true
	for _, entry := range snapshots {
		if !entry.Fresh {
			allFresh = false
		}
	}

	if jsonOutput {
		word := "fresh"
		if !allFresh {
			word = "stale"
		}
		payload := map[string]interface{}{
			"status":    word,
			"overall":   health.Overall.String(),
			"snapshots": snapshots,
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Println(string(data))
	} else if allFresh {
		fmt.Printf("snapshots fresh (overall %s)\n", health.Overall)
		printSnapshotLines(os.Stdout, snapshots)
	} else {
		fmt.Fprintln(os.Stderr, "snapshots stale or missing")
		printSnapshotLines(os.Stderr, snapshots)
	}

	if allFresh {
		return 0
	}
	return 1
}

// describeSnapshot summarizes one cache entry. fresh comes from the typed
// load; presence comes from the file itself, so a stale entry still shows
// its age.
func describeSnapshot(store *cache.Store, key string, fresh bool) snapshotHealth {
	age := store.Age(key)
	entry := snapshotHealth{Present: age > 0, Fresh: fresh}
	if entry.Present {
		entry.Age = age.Round(time.Second).String()
	}
	return entry
}

func printSnapshotLines(w *os.File, snapshots map[string]snapshotHealth) {
	for _, key := range healthOrder {
		entry := snapshots[key]
		switch {
		case !entry.Present:
			fmt.Fprintf(w, "  %s: missing\n", key)
		case !entry.Fresh:
			fmt.Fprintf(w, "  %s: stale (age %s)\n", key, entry.Age)
		default:
			fmt.Fprintf(w, "  %s: %s (age %s)\n", key, entry.Level, entry.Age)
		}
	}
}

// healthJSON flattens an evaluation for JSON output.
func healthJSON(health status.SystemStatus) map[string]interface{} {
	components := make([]map[string]string, 0, len(health.Components))
	for _, c := range health.Components {
		components = append(components, map[string]string{
			"component": c.Component,
			"level":     c.Level.String(),
			"reason":    c.Reason,
		})
	}
	return map[string]interface{}{
		"overall":      health.Overall.String(),
		"components":   components,
		"evaluated_at": health.EvaluatedAt.Format(time.RFC3339),
	}
}

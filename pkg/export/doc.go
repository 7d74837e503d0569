// Package export provides JSON and DOT output for decoded graphs, plus
// analysis report generation.
//
// # Overview
//
// This package serializes graphs to formats consumed outside the engine:
//
//   - JSON for integration with external tools and round-trip processing
//   - Graphviz DOT for quick visual inspection with standard tooling
//   - Analysis reports bundling scores, communities, and run metadata
//
// # JSON Format
//
// The format has two required top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": 1, "label": "alice"},
//	    {"id": 2, "label": "bob"}
//	  ],
//	  "edges": [
//	    {"source": 1, "target": 2}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: Unique numeric identifier
//
// Optional:
//   - label: Display name (empty when the source carried no string table)
//   - score: Centrality score (omitted when zero)
//   - degree: Degree count carried from the source data
//   - x, y: Display coordinates from an external layout step
//
// Each edge must have "source" and "target" fields referencing node ids.
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	g, err := export.ImportJSON("graph.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
package export

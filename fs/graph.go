package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/webkb/webkb"
)

// WriteGraph persists a link graph as JSON keyed by source URL. The file
// is written to a temporary path and renamed into place.
func WriteGraph(path string, graph *webkb.LinkGraph) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return webkb.Errorf(webkb.EINTERNAL, "failed to create graph directory: %v", err)
	}

	data, err := json.MarshalIndent(graph.Export(), "", "  ")
	if err != nil {
		return webkb.Errorf(webkb.EINTERNAL, "failed to encode graph: %v", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return webkb.Errorf(webkb.EINTERNAL, "failed to create temp graph file: %v", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return webkb.Errorf(webkb.EINTERNAL, "failed to write graph file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return webkb.Errorf(webkb.EINTERNAL, "failed to close temp graph file: %v", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return webkb.Errorf(webkb.EINTERNAL, "failed to replace graph file: %v", err)
	}
	return nil
}

// ReadGraph loads a link graph written by WriteGraph.
func ReadGraph(path string) (*webkb.LinkGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, webkb.Errorf(webkb.ENOTFOUND, "graph file %q not found", path)
		}
		return nil, webkb.Errorf(webkb.EINTERNAL, "failed to read graph file: %v", err)
	}

	var edges map[string][]webkb.LinkEdge
	if err := json.Unmarshal(data, &edges); err != nil {
		return nil, webkb.Errorf(webkb.EINTERNAL, "failed to decode graph file: %v", err)
	}
	return webkb.ImportEdges(edges), nil
}

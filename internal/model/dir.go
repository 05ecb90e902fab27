package model

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/assetlink-labs/assetlink/internal/asset"
)

// Dir serves object models from a directory of YAML documents. All
// documents are parsed and indexed up front; the registry then resolves
// models without touching the filesystem again.
type Dir struct {
	path   string
	byID   map[string]*asset.ObjectModel
	byName map[string]*asset.ObjectModel
}

// NewDir scans path for *.yaml and *.yml documents and indexes them by
// (app, id) and (app, name). A document that fails to parse aborts the
// scan; run `models validate` to locate the offender.
func NewDir(path string) (*Dir, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading model directory %s: %w", path, err)
	}

	d := &Dir{
		path:   path,
		byID:   make(map[string]*asset.ObjectModel),
		byName: make(map[string]*asset.ObjectModel),
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		full := filepath.Join(path, name)
		doc, err := ParseFile(full)
		if err != nil {
			return nil, err
		}
		m, err := doc.ToObjectModel()
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", full, err)
		}
		idK := m.App + "/" + strconv.Itoa(m.ID)
		nameK := m.App + "/" + m.Name
		if _, dup := d.byID[idK]; dup {
			return nil, fmt.Errorf("model %s: duplicate definition for %s", full, idK)
		}
		if _, dup := d.byName[nameK]; dup {
			return nil, fmt.Errorf("model %s: duplicate definition for %s", full, nameK)
		}
		d.byID[idK] = m
		d.byName[nameK] = m
	}
	return d, nil
}

// Path returns the scanned directory.
func (d *Dir) Path() string { return d.path }

// Len returns the number of indexed models.
func (d *Dir) Len() int { return len(d.byID) }

// Models returns every indexed model ordered by (app, id).
func (d *Dir) Models() []*asset.ObjectModel {
	out := make([]*asset.ObjectModel, 0, len(d.byID))
	for _, m := range d.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].App != out[j].App {
			return out[i].App < out[j].App
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ObjectByID implements asset.ModelSource.
func (d *Dir) ObjectByID(app string, id int) (*asset.ObjectModel, error) {
	if m, ok := d.byID[app+"/"+strconv.Itoa(id)]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("no model for %s/%d: %w", app, id, asset.ErrNotFound)
}

// ObjectByName implements asset.ModelSource.
func (d *Dir) ObjectByName(app, name string) (*asset.ObjectModel, error) {
	if m, ok := d.byName[app+"/"+name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("no model for %s/%s: %w", app, name, asset.ErrNotFound)
}

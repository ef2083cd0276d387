// Package scanner discovers fitted models in a results directory.
//
// The pipeline writes one directory per hemisphere, model and measure, named
// <h>.<name>.<measure>. A directory counts only if it holds the stack_names.txt
// term table and its opposite-hemisphere twin exists too.
package scanner

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"brainmapp/domain/results"
	"brainmapp/domain/surface"
	"brainmapp/internal/errors"
)

// MarkerFile is the term table every valid result directory contains.
const MarkerFile = "stack_names.txt"

// Scanner builds model catalogs from a results root.
type Scanner struct{}

// New creates a scanner
func New() *Scanner {
	return &Scanner{}
}

// Scan enumerates the immediate subdirectories of root and returns the catalog
// of models present in both hemispheres. Discarded directories are reported as
// diagnostics and logged; only an unreadable root is an error.
func (s *Scanner) Scan(ctx context.Context, root string) (*results.ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.ScanError(root, err)
	}
	if !info.IsDir() {
		return nil, errors.ScanError(root, fmt.Errorf("not a directory"))
	}

	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.ScanError(root, err)
	}

	res := &results.ScanResult{
		Root:    root,
		Catalog: make(results.Catalog),
	}

	groups := make(map[results.ModelKey]map[surface.Hemisphere]string)
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !de.IsDir() {
			continue
		}
		name := de.Name()
		dir := filepath.Join(root, name)

		if _, err := os.Stat(filepath.Join(dir, MarkerFile)); err != nil {
			res.Diagnostics = append(res.Diagnostics, discard(results.MissingMarker, name,
				fmt.Sprintf("There is a problem with %q: no %s. Removing the model from overview", name, MarkerFile)))
			continue
		}

		entry, ok := parseEntryName(name)
		if !ok {
			res.Diagnostics = append(res.Diagnostics, discard(results.BadName, name,
				fmt.Sprintf("Directory %q does not follow the <h>.<name>.<measure> convention", name)))
			continue
		}
		entry.Dir = dir

		if groups[entry.Key] == nil {
			groups[entry.Key] = make(map[surface.Hemisphere]string)
		}
		if prev, ok := groups[entry.Key][entry.Hemisphere]; ok {
			res.Diagnostics = append(res.Diagnostics, discard(results.DuplicateHemi, name,
				fmt.Sprintf("Directory %q duplicates the %s hemisphere of %s already read from %q. Ignoring it",
					name, entry.Hemisphere, entry.Key, filepath.Base(prev))))
			continue
		}
		groups[entry.Key][entry.Hemisphere] = entry.Dir
	}

	var oneHemi []string
	keys := make([]results.ModelKey, 0, len(groups))
	for key, dirs := range groups {
		if len(dirs) < len(surface.Hemispheres) {
			oneHemi = append(oneHemi, key.String())
			continue
		}
		keys = append(keys, key)
	}
	if len(oneHemi) > 0 {
		sort.Strings(oneHemi)
		res.Diagnostics = append(res.Diagnostics, discard(results.SingleHemisphere, strings.Join(oneHemi, ", "),
			fmt.Sprintf("Models %v were estimated in one hemisphere only. This is currently not supported", oneHemi)))
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	for _, key := range keys {
		dirs := groups[key]
		// Both hemispheres of a model share the same design, so one table is enough.
		terms, err := ReadStackNames(filepath.Join(dirs[surface.Left], MarkerFile))
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, discard(results.BadMarker, key.String(),
				fmt.Sprintf("Could not read the terms of %s: %v", key, err)))
			continue
		}

		model := results.Model{
			Key:   key,
			Terms: make(map[string]int, len(terms)),
			Order: make([]string, 0, len(terms)),
			Dirs:  dirs,
		}
		for _, term := range terms {
			model.Terms[term.Name] = term.Stack
			model.Order = append(model.Order, term.Name)
		}
		res.Catalog[key] = model
	}

	log.Printf("[Scanner] %s: %d models, %d discarded entries", root, len(res.Catalog), len(res.Diagnostics))
	return res, nil
}

func discard(kind results.DiagnosticKind, subject, message string) results.Diagnostic {
	log.Printf("[Scanner] %s", message)
	return results.Diagnostic{Kind: kind, Subject: subject, Message: message}
}

// parseEntryName splits "<h>.<name>.<measure>". The name may contain dots; the
// measure is the last component.
func parseEntryName(name string) (results.ResultEntry, bool) {
	parts := strings.Split(name, ".")
	if len(parts) < 3 {
		return results.ResultEntry{}, false
	}
	hemi, ok := surface.ParseHemiPrefix(parts[0])
	if !ok {
		return results.ResultEntry{}, false
	}
	modelName := strings.Join(parts[1:len(parts)-1], ".")
	measure := parts[len(parts)-1]
	if modelName == "" || measure == "" {
		return results.ResultEntry{}, false
	}
	return results.ResultEntry{
		Hemisphere: hemi,
		Key:        results.ModelKey{Name: modelName, Measure: measure},
	}, true
}

package slidemodel

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// errValidation is wrapped when the validation gate rejects a package.
var errValidation = errors.New("generated package is invalid")

// validatePackage is the final gate before a package is handed out. Every
// XML part must parse, every relationship id used in a part must have an
// entry in that part's table, every internal target must exist and every
// part must have a content type.
func validatePackage(reg *PartRegistry, rels *RelationshipManager, types *ContentTypes) error {
	for _, p := range reg.Paths() {
		if !isXMLPart(p) {
			if _, ok := types.Lookup(p); !ok {
				return &PackageValidationError{Part: p, Err: fmt.Errorf("%w: no content type", errValidation)}
			}
			continue
		}
		data, _ := reg.Get(p)
		doc, err := parseXMLTree(data)
		if err != nil {
			return &PackageValidationError{Part: p, Err: fmt.Errorf("%w: %v", errValidation, err)}
		}
		if p == contentTypesPath {
			continue
		}
		if _, ok := types.Lookup(p); !ok {
			return &PackageValidationError{Part: p, Err: fmt.Errorf("%w: no content type", errValidation)}
		}
		if _, isRels := sourceOfRels(p); isRels {
			continue
		}
		table := rels.Existing(p)
		for _, ref := range collectRelRefs(doc, nil) {
			if table == nil {
				return &PackageValidationError{Part: p, Err: &DanglingRelationshipError{Part: p, ID: ref.id}}
			}
			if _, ok := table.Lookup(ref.id); !ok {
				return &PackageValidationError{Part: p, Err: &DanglingRelationshipError{Part: p, ID: ref.id}}
			}
		}
	}
	if missing := rels.Missing(reg); len(missing) > 0 {
		m := missing[0]
		return &PackageValidationError{Part: m.Part, Err: fmt.Errorf("%w: relationship %s targets missing part %s", errValidation, m.ID, m.Target)}
	}
	return nil
}

// reportUnreferenced adds a warning for every part the relationship graph
// does not reach from the package root.
func reportUnreferenced(reg *PartRegistry, rels *RelationshipManager, ws *warnings) error {
	orphans, err := rels.Orphans(reg)
	if err != nil {
		return fmt.Errorf("failed to walk the part graph: %w", err)
	}
	for _, p := range orphans {
		ws.add(Warning{Part: p, Err: &UnreferencedPartError{Part: p}})
	}
	return nil
}

// Validate runs the package checks over an already generated or loaded
// container.
func Validate(reg *PartRegistry) error {
	rels, err := LoadRelationships(reg)
	if err != nil {
		return &PackageValidationError{Part: "", Err: err}
	}
	data, ok := reg.Get(contentTypesPath)
	if !ok {
		return &PackageValidationError{Part: contentTypesPath, Err: fmt.Errorf("%w: part missing", errValidation)}
	}
	types, err := parseContentTypes(data)
	if err != nil {
		return &PackageValidationError{Part: contentTypesPath, Err: err}
	}
	return validatePackage(reg, rels, types)
}

func isXMLPart(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".xml", ".rels", ".vml":
		return true
	}
	return false
}

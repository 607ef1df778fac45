package ql

import (
	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/errors"
)

// ConflictBehavior governs how a table resolves a primary-key collision
// during insert.
type ConflictBehavior int

const (
	ConflictError ConflictBehavior = iota
	ConflictReplace
	ConflictUpdate
)

func (c ConflictBehavior) String() string {
	switch c {
	case ConflictReplace:
		return "replace"
	case ConflictUpdate:
		return "update"
	default:
		return "error"
	}
}

// Durability governs the acknowledgement guarantee a table gives for a batch.
type Durability int

const (
	DurabilityDefault Durability = iota
	DurabilityHard
	DurabilitySoft
)

func (d Durability) String() string {
	switch d {
	case DurabilityHard:
		return "hard"
	case DurabilitySoft:
		return "soft"
	default:
		return "default"
	}
}

// ReturnChanges governs whether a table reports before/after change
// records. ReturnChangesAlways forces records even for no-op writes.
type ReturnChanges int

const (
	ReturnChangesNo ReturnChanges = iota
	ReturnChangesYes
	ReturnChangesAlways
)

// OptArgs holds the already-resolved named options of one write term.
type OptArgs map[string]datum.Datum

// resolveConflict decodes the "conflict" option. Absent means ConflictError.
func resolveConflict(args OptArgs) (ConflictBehavior, error) {
	v, ok := args["conflict"]
	if !ok {
		return ConflictError, nil
	}
	if v.Type() != datum.TypeString {
		return 0, errors.NewLogicf("Expected type STRING but found %s.", v.Type())
	}
	switch v.StrVal() {
	case "error":
		return ConflictError, nil
	case "replace":
		return ConflictReplace, nil
	case "update":
		return ConflictUpdate, nil
	default:
		return 0, errors.NewLogicf(
			"Conflict option `%s` unrecognized (options are \"error\", \"replace\" and \"update\").",
			v.StrVal())
	}
}

// resolveDurability decodes the "durability" option. Absent means
// DurabilityDefault.
func resolveDurability(args OptArgs) (Durability, error) {
	v, ok := args["durability"]
	if !ok {
		return DurabilityDefault, nil
	}
	if v.Type() != datum.TypeString {
		return 0, errors.NewLogicf("Expected type STRING but found %s.", v.Type())
	}
	switch v.StrVal() {
	case "hard":
		return DurabilityHard, nil
	case "soft":
		return DurabilitySoft, nil
	default:
		return 0, errors.NewLogicf(
			"Durability option `%s` unrecognized (options are \"hard\" and \"soft\").",
			v.StrVal())
	}
}

// resolveReturnChanges decodes the "return_changes" option. The obsolete
// "return_vals" name is rejected unconditionally, whatever its value.
func resolveReturnChanges(args OptArgs) (ReturnChanges, error) {
	if _, ok := args["return_vals"]; ok {
		return 0, errors.NewLogicf(
			"Error: encountered obsolete optarg `return_vals`.  Use `return_changes` instead.")
	}
	v, ok := args["return_changes"]
	if !ok {
		return ReturnChangesNo, nil
	}
	switch v.Type() {
	case datum.TypeString:
		if v.StrVal() != "always" {
			return 0, errors.NewLogicf(
				"Invalid return_changes value `%s` (options are `true`, `false`, and `'always'`.)",
				v.StrVal())
		}
		return ReturnChangesAlways, nil
	case datum.TypeBool:
		if v.BoolVal() {
			return ReturnChangesYes, nil
		}
		return ReturnChangesNo, nil
	default:
		return 0, errors.NewLogicf("Expected type BOOL but found %s.", v.Type())
	}
}

// resolveNonAtomic decodes the "non_atomic" flag. Absent means false.
func resolveNonAtomic(args OptArgs) (bool, error) {
	v, ok := args["non_atomic"]
	if !ok {
		return false, nil
	}
	if v.Type() != datum.TypeBool {
		return false, errors.NewLogicf("Expected type BOOL but found %s.", v.Type())
	}
	return v.BoolVal(), nil
}

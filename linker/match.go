package linker

import (
	"fmt"

	"github.com/streamvm/wasm-core/errors"
	"github.com/streamvm/wasm-core/types"
)

// matchFunc requires an exact signature match. Symbols are not part of
// signature identity, so a definition with any (or no) symbol satisfies
// the same structural type.
func matchFunc(module, name string, required, provided types.FunctionType) error {
	if !required.Equal(provided) {
		return errors.IncompatibleImport(module, name,
			fmt.Sprintf("signature mismatch: import requires %s, definition provides %s", required, provided))
	}
	return nil
}

// matchLimits implements limit subsumption: the provided limit must reserve
// at least as much as the import requires, and must not exceed a required
// maximum. Shared and unshared limits never match each other.
func matchLimits(module, name string, required, provided types.Limit) error {
	if provided.IsShared() != required.IsShared() {
		return errors.IncompatibleImport(module, name,
			fmt.Sprintf("sharing mismatch: import requires %s, definition provides %s", required, provided))
	}
	if provided.Min() < required.Min() {
		return errors.IncompatibleImport(module, name,
			fmt.Sprintf("min %d below required %d", provided.Min(), required.Min()))
	}
	if required.HasMax() {
		if !provided.HasMax() {
			return errors.IncompatibleImport(module, name,
				fmt.Sprintf("import requires max %d, definition is unbounded", required.Max()))
		}
		if provided.Max() > required.Max() {
			return errors.IncompatibleImport(module, name,
				fmt.Sprintf("max %d exceeds required %d", provided.Max(), required.Max()))
		}
	}
	return nil
}

func matchTable(module, name string, required, provided types.TableType) error {
	if required.RefType() != provided.RefType() {
		return errors.IncompatibleImport(module, name,
			fmt.Sprintf("element type mismatch: import requires %s, definition provides %s",
				required.RefType(), provided.RefType()))
	}
	return matchLimits(module, name, required.Limit(), provided.Limit())
}

func matchMemory(module, name string, required, provided types.MemoryType) error {
	return matchLimits(module, name, required.Limit(), provided.Limit())
}

// matchGlobal requires exact value type and mutability. Mutable globals
// are matched invariantly per the core spec.
func matchGlobal(module, name string, required, provided types.GlobalType) error {
	if required.ValType() != provided.ValType() {
		return errors.IncompatibleImport(module, name,
			fmt.Sprintf("value type mismatch: import requires %s, definition provides %s",
				required.ValType(), provided.ValType()))
	}
	if required.Mutability() != provided.Mutability() {
		return errors.IncompatibleImport(module, name,
			fmt.Sprintf("mutability mismatch: import requires %s, definition provides %s",
				required.Mutability(), provided.Mutability()))
	}
	return nil
}

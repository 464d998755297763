package engine

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/streamvm/wasm-core/errors"
	"github.com/streamvm/wasm-core/types"
)

// ValueType maps a structural value type to its wazero representation.
// Funcref cannot cross the host boundary; wazero does not expose it.
func ValueType(v types.ValType) (api.ValueType, error) {
	switch v {
	case types.ValI32:
		return api.ValueTypeI32, nil
	case types.ValI64:
		return api.ValueTypeI64, nil
	case types.ValF32:
		return api.ValueTypeF32, nil
	case types.ValF64:
		return api.ValueTypeF64, nil
	case types.ValV128:
		// wazero does not export a v128 value type; 0x7b is the wasm binary
		// encoding it uses internally.
		return api.ValueType(0x7b), nil
	case types.ValExternRef:
		return api.ValueTypeExternref, nil
	default:
		return 0, errors.Unsupported(errors.PhaseInstantiate,
			"value type "+v.String()+" cannot cross the host boundary")
	}
}

// ValueTypes maps a slice of value types, preserving order.
func ValueTypes(vs []types.ValType) ([]api.ValueType, error) {
	if len(vs) == 0 {
		return nil, nil
	}
	out := make([]api.ValueType, len(vs))
	for i, v := range vs {
		vt, err := ValueType(v)
		if err != nil {
			return nil, err
		}
		out[i] = vt
	}
	return out, nil
}

// hostSignature flattens a function signature into wazero param and result
// types for host function registration.
func hostSignature(sig types.FunctionType) (params, results []api.ValueType, err error) {
	params, err = ValueTypes(sig.Params())
	if err != nil {
		return nil, nil, err
	}
	results, err = ValueTypes(sig.Results())
	if err != nil {
		return nil, nil, err
	}
	return params, results, nil
}

package types

// GlobalType describes a global variable's declared value type and
// mutability. The two fields are independent; whether a given combination
// is legal (e.g. a reference-typed global) is a validator concern.
//
// The zero value carries an invalid value type. Start from
// DefaultGlobalType, or NewGlobalType with an explicit type.
type GlobalType struct {
	valType ValType
	mut     Mutability
}

// NewGlobalType returns a GlobalType for the given value type and
// mutability.
func NewGlobalType(valType ValType, mut Mutability) GlobalType {
	return GlobalType{valType: valType, mut: mut}
}

// DefaultGlobalType returns the default global type: i32, constant.
func DefaultGlobalType() GlobalType {
	return GlobalType{valType: ValI32, mut: MutConst}
}

// ValType returns the declared value type.
func (g GlobalType) ValType() ValType { return g.valType }

// SetValType replaces the declared value type. Construction-time only.
func (g *GlobalType) SetValType(v ValType) { g.valType = v }

// Mutability returns the declared mutability.
func (g GlobalType) Mutability() Mutability { return g.mut }

// SetMutability replaces the declared mutability. Construction-time only.
func (g *GlobalType) SetMutability(m Mutability) { g.mut = m }

func (g GlobalType) String() string {
	return "global " + g.mut.String() + " " + g.valType.String()
}

package wasm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	werrors "github.com/streamvm/wasm-core/errors"
	"github.com/streamvm/wasm-core/types"
	"github.com/streamvm/wasm-core/wasm/internal/binary"
)

// Parsing errors returned by ParseModule.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
)

// ParseModule parses a WebAssembly binary module.
//
// Every malformed encoding (unknown limit flags, min greater than max,
// non-reference table element types) is rejected here, before any
// structural type is constructed. The types package relies on this.
// Failures come back as *errors.Error with phase parse, carrying the
// section name and byte offset.
func ParseModule(data []byte) (*Module, error) {
	r := binary.NewReader(bytes.NewReader(data))

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, werrors.Malformed("header", r.Position(), err)
	}
	if magic != Magic {
		return nil, werrors.Malformed("header", 0, ErrInvalidMagic)
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, werrors.Malformed("header", r.Position(), err)
	}
	if version != Version {
		return nil, werrors.Malformed("header", 4, ErrInvalidVersion)
	}

	m := &Module{}

	// Track section ordering using canonical order, not section IDs.
	// Spec order: Type(1), Import(2), Function(3), Table(4), Memory(5),
	// Global(6), Export(7), Start(8), Element(9), DataCount(12), Code(10),
	// Data(11)
	var lastSectionOrder int

	for {
		sectionStart := r.Position()

		sectionID, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, werrors.Malformed("section header", r.Position(), err)
		}

		if sectionID != SectionCustom {
			order := sectionOrder(sectionID)
			if order <= lastSectionOrder {
				return nil, werrors.New(werrors.PhaseParse, werrors.KindMalformed).
					Offset(sectionStart).
					Detail("section %d appears out of order", sectionID).
					Build()
			}
			lastSectionOrder = order
		}

		sectionSize, err := r.ReadU32()
		if err != nil {
			return nil, werrors.Malformed(sectionName(sectionID), r.Position(), err)
		}

		payloadStart := r.Position()
		sectionData, err := r.ReadBytes(int(sectionSize))
		if err != nil {
			return nil, werrors.Malformed(sectionName(sectionID), payloadStart, err)
		}

		sr := binary.NewReader(bytes.NewReader(sectionData))

		switch sectionID {
		case SectionCustom:
			err = parseCustomSection(sr, m)
		case SectionType:
			err = parseTypeSection(sr, m)
		case SectionImport:
			err = parseImportSection(sr, m)
		case SectionFunction:
			err = parseFunctionSection(sr, m)
		case SectionTable:
			err = parseTableSection(sr, m)
		case SectionMemory:
			err = parseMemorySection(sr, m)
		case SectionGlobal:
			err = parseGlobalSection(sr, m)
		case SectionExport:
			err = parseExportSection(sr, m)
		case SectionStart:
			err = parseStartSection(sr, m)
		case SectionElement:
			err = parseElementSection(sr, m)
		case SectionCode:
			err = parseCodeSection(sr, m)
		case SectionData:
			err = parseDataSection(sr, m)
		case SectionDataCount:
			err = parseDataCountSection(sr, m)
		default:
			err = fmt.Errorf("unknown section ID: 0x%02x", sectionID)
		}
		if err != nil {
			return nil, werrors.Malformed(sectionName(sectionID), payloadStart+sr.Position(), err)
		}
	}

	return m, nil
}

func sectionName(id byte) string {
	switch id {
	case SectionCustom:
		return "custom"
	case SectionType:
		return "type"
	case SectionImport:
		return "import"
	case SectionFunction:
		return "function"
	case SectionTable:
		return "table"
	case SectionMemory:
		return "memory"
	case SectionGlobal:
		return "global"
	case SectionExport:
		return "export"
	case SectionStart:
		return "start"
	case SectionElement:
		return "element"
	case SectionCode:
		return "code"
	case SectionData:
		return "data"
	case SectionDataCount:
		return "data count"
	default:
		return "unknown"
	}
}

// sectionOrder returns the canonical ordering for a section ID, which
// differs from the raw ID because DataCount precedes Code.
func sectionOrder(id byte) int {
	switch id {
	case SectionType:
		return 1
	case SectionImport:
		return 2
	case SectionFunction:
		return 3
	case SectionTable:
		return 4
	case SectionMemory:
		return 5
	case SectionGlobal:
		return 6
	case SectionExport:
		return 7
	case SectionStart:
		return 8
	case SectionElement:
		return 9
	case SectionDataCount:
		return 10
	case SectionCode:
		return 11
	case SectionData:
		return 12
	default:
		return 100 // Unknown sections at end
	}
}

func parseCustomSection(r *binary.Reader, m *Module) error {
	name, err := r.ReadName()
	if err != nil {
		return err
	}
	rest, err := r.ReadRemaining()
	if err != nil {
		return err
	}
	m.CustomSections = append(m.CustomSections, CustomSection{
		Name: name,
		Data: rest,
	})
	return nil
}

func parseTypeSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Types = make([]types.FunctionType, count)
	for i := uint32(0); i < count; i++ {
		form, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("read type form at index %d: %w", i, err)
		}
		if form != FuncTypeByte {
			return fmt.Errorf("expected functype (0x60), got 0x%02x", form)
		}
		ft, err := readFuncType(r)
		if err != nil {
			return err
		}
		m.Types[i] = ft
	}
	return nil
}

func readFuncType(r *binary.Reader) (types.FunctionType, error) {
	params, err := readValTypes(r)
	if err != nil {
		return types.FunctionType{}, err
	}
	results, err := readValTypes(r)
	if err != nil {
		return types.FunctionType{}, err
	}
	return types.NewFunctionType(params, results), nil
}

func readValTypes(r *binary.Reader) ([]types.ValType, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	vs := make([]types.ValType, count)
	for i := uint32(0); i < count; i++ {
		vs[i], err = readValType(r)
		if err != nil {
			return nil, err
		}
	}
	return vs, nil
}

func readValType(r *binary.Reader) (types.ValType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	v := types.ValType(b)
	if !v.IsValid() {
		return 0, fmt.Errorf("invalid value type 0x%02x", b)
	}
	return v, nil
}

func parseImportSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Imports = make([]Import, count)
	for i := uint32(0); i < count; i++ {
		module, err := r.ReadName()
		if err != nil {
			return err
		}
		name, err := r.ReadName()
		if err != nil {
			return err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}

		imp := Import{Module: module, Name: name, Desc: ImportDesc{Kind: kind}}

		switch kind {
		case KindFunc:
			imp.Desc.TypeIdx, err = r.ReadU32()
			if err != nil {
				return err
			}
		case KindTable:
			table, err := readTableType(r)
			if err != nil {
				return err
			}
			imp.Desc.Table = &table
		case KindMemory:
			memory, err := readMemoryType(r)
			if err != nil {
				return err
			}
			imp.Desc.Memory = &memory
		case KindGlobal:
			global, err := readGlobalType(r)
			if err != nil {
				return err
			}
			imp.Desc.Global = &global
		default:
			return fmt.Errorf("unknown import kind: %d", kind)
		}

		m.Imports[i] = imp
	}
	return nil
}

func parseFunctionSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Funcs = make([]uint32, count)
	for i := uint32(0); i < count; i++ {
		m.Funcs[i], err = r.ReadU32()
		if err != nil {
			return err
		}
	}
	return nil
}

func parseTableSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Tables = make([]types.TableType, count)
	for i := uint32(0); i < count; i++ {
		m.Tables[i], err = readTableType(r)
		if err != nil {
			return err
		}
	}
	return nil
}

func parseMemorySection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Memories = make([]types.MemoryType, count)
	for i := uint32(0); i < count; i++ {
		m.Memories[i], err = readMemoryType(r)
		if err != nil {
			return err
		}
	}
	return nil
}

func parseGlobalSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Globals = make([]Global, count)
	for i := uint32(0); i < count; i++ {
		globalType, err := readGlobalType(r)
		if err != nil {
			return err
		}
		init, err := readInitExpr(r)
		if err != nil {
			return err
		}
		m.Globals[i] = Global{
			Type: globalType,
			Init: init,
		}
	}
	return nil
}

func parseExportSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Exports = make([]Export, count)
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadName()
		if err != nil {
			return err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}
		if kind > KindGlobal {
			return fmt.Errorf("invalid export kind: 0x%02x", kind)
		}
		idx, err := r.ReadU32()
		if err != nil {
			return err
		}
		m.Exports[i] = Export{Name: name, Kind: kind, Idx: idx}
	}
	return nil
}

func parseStartSection(r *binary.Reader, m *Module) error {
	idx, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Start = &idx
	return nil
}

func parseElementSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Elements = make([]Element, count)
	for i := uint32(0); i < count; i++ {
		flags, err := r.ReadU32()
		if err != nil {
			return err
		}
		if flags > 7 {
			return fmt.Errorf("invalid element segment flags: %d", flags)
		}

		elem := Element{Flags: flags}

		// Bit 1: passive/declarative (no table index or offset)
		// Bit 2: explicit table index
		hasTableIdx := flags&0x02 != 0 && flags&0x01 == 0
		hasOffset := flags&0x01 == 0
		usesExprs := flags&0x04 != 0

		if hasTableIdx {
			elem.TableIdx, err = r.ReadU32()
			if err != nil {
				return err
			}
		}

		if hasOffset {
			elem.Offset, err = readInitExpr(r)
			if err != nil {
				return err
			}
		}

		// Flags 1, 2, 3: elemkind follows (must be 0x00 for funcref).
		// Flags 5, 6, 7: reftype follows.
		if flags&0x03 != 0 {
			if usesExprs {
				b, err := r.ReadByte()
				if err != nil {
					return err
				}
				rt := types.ValType(b)
				if !rt.IsRefType() {
					return fmt.Errorf("element %d: 0x%02x is not a reference type", i, b)
				}
				elem.Type = rt
			} else {
				elem.ElemKind, err = r.ReadByte()
				if err != nil {
					return err
				}
				if elem.ElemKind != 0x00 {
					return fmt.Errorf("element %d: invalid elemkind 0x%02x", i, elem.ElemKind)
				}
			}
		}

		vecCount, err := r.ReadU32()
		if err != nil {
			return err
		}

		if usesExprs {
			elem.Exprs = make([][]byte, vecCount)
			for j := uint32(0); j < vecCount; j++ {
				elem.Exprs[j], err = readInitExpr(r)
				if err != nil {
					return err
				}
			}
		} else {
			elem.FuncIdxs = make([]uint32, vecCount)
			for j := uint32(0); j < vecCount; j++ {
				elem.FuncIdxs[j], err = r.ReadU32()
				if err != nil {
					return err
				}
			}
		}

		m.Elements[i] = elem
	}
	return nil
}

func parseCodeSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Code = make([]FuncBody, count)
	for i := uint32(0); i < count; i++ {
		bodySize, err := r.ReadU32()
		if err != nil {
			return err
		}
		bodyData, err := r.ReadBytes(int(bodySize))
		if err != nil {
			return err
		}

		br := binary.NewReader(bytes.NewReader(bodyData))

		localCount, err := br.ReadU32()
		if err != nil {
			return err
		}
		var locals []LocalEntry
		for j := uint32(0); j < localCount; j++ {
			n, err := br.ReadU32()
			if err != nil {
				return err
			}
			t, err := readValType(br)
			if err != nil {
				return err
			}
			locals = append(locals, LocalEntry{Count: n, ValType: t})
		}

		code, err := br.ReadRemaining()
		if err != nil {
			return err
		}

		m.Code[i] = FuncBody{Locals: locals, Code: code}
	}
	return nil
}

func parseDataSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Data = make([]DataSegment, count)
	for i := uint32(0); i < count; i++ {
		flags, err := r.ReadU32()
		if err != nil {
			return err
		}
		if flags > 2 {
			return fmt.Errorf("invalid data segment flags: %d", flags)
		}

		seg := DataSegment{Flags: flags}

		// flags=0: active, memIdx=0, offset, data
		// flags=1: passive, data only
		// flags=2: active, memIdx, offset, data
		if flags == 2 {
			seg.MemIdx, err = r.ReadU32()
			if err != nil {
				return err
			}
		}

		if flags != 1 {
			seg.Offset, err = readInitExpr(r)
			if err != nil {
				return err
			}
		}

		initLen, err := r.ReadU32()
		if err != nil {
			return err
		}
		seg.Init, err = r.ReadBytes(int(initLen))
		if err != nil {
			return err
		}

		m.Data[i] = seg
	}
	return nil
}

func parseDataCountSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.DataCount = &count
	return nil
}

// readLimit decodes one of the four limit encodings. The flag byte maps
// 1:1 onto types.LimitType; anything above 0x03 is malformed. min > max is
// rejected here since the types package performs no ordering checks.
func readLimit(r *binary.Reader) (types.Limit, error) {
	flag, err := r.ReadByte()
	if err != nil {
		return types.Limit{}, err
	}

	switch types.LimitType(flag) {
	case types.LimitHasMin, types.LimitSharedNoMax:
		min, err := r.ReadU32()
		if err != nil {
			return types.Limit{}, err
		}
		lim := types.NewLimit(min)
		lim.SetType(types.LimitType(flag))
		return lim, nil

	case types.LimitHasMinMax, types.LimitShared:
		min, err := r.ReadU32()
		if err != nil {
			return types.Limit{}, err
		}
		max, err := r.ReadU32()
		if err != nil {
			return types.Limit{}, err
		}
		if min > max {
			return types.Limit{}, fmt.Errorf("limit min (%d) exceeds max (%d)", min, max)
		}
		return types.NewLimitWithMax(min, max, types.LimitType(flag) == types.LimitShared), nil

	default:
		return types.Limit{}, fmt.Errorf("unknown limit flag 0x%02x", flag)
	}
}

// readTableType decodes an element type byte and a limit. The element tag
// is validated here, before the TableType is constructed; the TableType
// constructor's reference-kind assertion is a backstop for internal bugs,
// not a parse path.
func readTableType(r *binary.Reader) (types.TableType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return types.TableType{}, err
	}
	elemType := types.ValType(b)
	if !elemType.IsRefType() {
		return types.TableType{}, fmt.Errorf("table element type 0x%02x is not a reference type", b)
	}
	lim, err := readLimit(r)
	if err != nil {
		return types.TableType{}, err
	}
	return types.NewTableTypeFromLimit(elemType, lim), nil
}

func readMemoryType(r *binary.Reader) (types.MemoryType, error) {
	lim, err := readLimit(r)
	if err != nil {
		return types.MemoryType{}, err
	}
	return types.NewMemoryTypeFromLimit(lim), nil
}

func readGlobalType(r *binary.Reader) (types.GlobalType, error) {
	valType, err := readValType(r)
	if err != nil {
		return types.GlobalType{}, err
	}
	mut, err := r.ReadByte()
	if err != nil {
		return types.GlobalType{}, err
	}
	if mut > byte(types.MutVar) {
		return types.GlobalType{}, fmt.Errorf("invalid mutability 0x%02x", mut)
	}
	return types.NewGlobalType(valType, types.Mutability(mut)), nil
}

func readInitExpr(r *binary.Reader) ([]byte, error) {
	var buf bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		buf.WriteByte(b)
		if b == OpEnd {
			break
		}
		if err := copyInitExprImmediate(r, &buf, b); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func copyInitExprImmediate(r *binary.Reader, buf *bytes.Buffer, opcode byte) error {
	switch opcode {
	case OpI32Const, OpI64Const, OpGlobalGet, OpRefNull, OpRefFunc:
		return copyLEB128(r, buf)
	case OpF32Const:
		return copyBytes(r, buf, 4)
	case OpF64Const:
		return copyBytes(r, buf, 8)
	// Extended-const proposal: arithmetic in init expressions, no immediates.
	case OpI32Add, OpI32Sub, OpI32Mul, OpI64Add, OpI64Sub, OpI64Mul:
		return nil
	case OpPrefixSIMD:
		subOp, err := r.ReadU32()
		if err != nil {
			return err
		}
		writeLEB128u(buf, subOp)
		if subOp == SimdV128Const {
			// v128.const has 16 bytes of immediate data
			return copyBytes(r, buf, 16)
		}
		return nil
	default:
		return fmt.Errorf("opcode 0x%02x not valid in initializer expression", opcode)
	}
}

func copyLEB128(r *binary.Reader, buf *bytes.Buffer) error {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		buf.WriteByte(b)
		if b&0x80 == 0 {
			break
		}
	}
	return nil
}

func copyBytes(r *binary.Reader, buf *bytes.Buffer, n int) error {
	data, err := r.ReadBytes(n)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func writeLEB128u(buf *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

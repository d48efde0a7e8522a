package binchunk

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Undump decodes a precompiled chunk into its root prototype. Any failure
// is a *FormatError; no partially decoded prototype is ever returned.
func Undump(data []byte) (*Prototype, error) {
	r := &reader{data: data}
	r.checkHeader()
	r.readByte() // size_upvalues
	proto := r.readProto("")
	if r.err != nil {
		return nil, r.err
	}
	return proto, nil
}

// reader decodes little-endian fields with a sticky error: once a read
// fails every later read returns a zero value and the first error is kept.
type reader struct {
	data   []byte
	offset int
	err    *FormatError
}

func (r *reader) fail(err error, format string, args ...any) {
	if r.err == nil {
		r.err = &FormatError{Offset: r.offset, Err: err, Detail: fmt.Sprintf(format, args...)}
	}
}

// take returns the next n bytes, or nil after recording ErrUnexpectedEOF.
func (r *reader) take(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.data)-r.offset {
		r.fail(ErrUnexpectedEOF, "reading %s: need %d bytes, have %d", what, n, len(r.data)-r.offset)
		return nil
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b
}

func (r *reader) readByte() byte {
	b := r.take(1, "byte")
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) readUint32() uint32 {
	b := r.take(4, "int")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) readUint64() uint64 {
	b := r.take(8, "size_t")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) readLuaInteger() int64 {
	return int64(r.readUint64())
}

func (r *reader) readLuaNumber() float64 {
	return math.Float64frombits(r.readUint64())
}

// readCount reads an element count and rejects counts that cannot fit in
// the remaining input given the minimum encoded size of one element.
func (r *reader) readCount(minElemSize int, what string) int {
	start := r.offset
	n := r.readUint32()
	if r.err != nil {
		return 0
	}
	if uint64(n)*uint64(minElemSize) > uint64(len(r.data)-r.offset) {
		r.offset = start
		r.fail(ErrUnexpectedEOF, "%s count %d exceeds remaining input", what, n)
		return 0
	}
	return int(n)
}

func (r *reader) readString() string {
	size := uint64(r.readByte())
	if size == 0 {
		return ""
	}
	if size == 0xFF {
		size = r.readUint64()
		if size == 0 || size-1 > uint64(len(r.data)-r.offset) {
			r.fail(ErrUnexpectedEOF, "long string of size %d", size)
			return ""
		}
	}
	b := r.take(int(size-1), "string")
	return string(b)
}

func (r *reader) checkHeader() {
	if string(r.take(len(LuaSignature), "signature")) != LuaSignature {
		r.offset = 0
		r.fail(ErrSignature, "")
		return
	}
	if v := r.readByte(); r.err == nil && v != LuacVersion {
		r.fail(ErrVersionMismatch, "got 0x%02x", v)
	}
	if f := r.readByte(); r.err == nil && f != LuacFormat {
		r.fail(ErrFormatMismatch, "got %d", f)
	}
	if string(r.take(len(LuacData), "LUAC_DATA")) != LuacData {
		r.fail(ErrCorrupted, "LUAC_DATA")
	}
	sizes := []struct {
		name string
		want byte
	}{
		{"int", CIntSize},
		{"size_t", CSizetSize},
		{"instruction", InstructionSize},
		{"lua_Integer", LuaIntegerSize},
		{"lua_Number", LuaNumberSize},
	}
	for _, s := range sizes {
		if got := r.readByte(); r.err == nil && got != s.want {
			r.fail(ErrSizeMismatch, "%s size %d, want %d", s.name, got, s.want)
		}
	}
	if i := r.readLuaInteger(); r.err == nil && i != LuacInt {
		r.fail(ErrEndianness, "LUAC_INT = %#x", i)
	}
	if f := r.readLuaNumber(); r.err == nil && f != LuacNum {
		r.fail(ErrFloatFormat, "LUAC_NUM = %v", f)
	}
}

func (r *reader) readProto(parentSource string) *Prototype {
	source := r.readString()
	if source == "" {
		source = parentSource
	}
	p := &Prototype{
		Source:          source,
		LineDefined:     r.readUint32(),
		LastLineDefined: r.readUint32(),
		NumParams:       r.readByte(),
		IsVararg:        r.readByte(),
		MaxStackSize:    r.readByte(),
	}
	p.Code = r.readCode()
	p.Constants = r.readConstants()
	p.Upvalues = r.readUpvalues()
	p.Protos = r.readProtos(source)
	p.LineInfo = r.readLineInfo()
	p.LocVars = r.readLocVars()
	p.UpvalueNames = r.readUpvalueNames()
	if r.err != nil {
		return nil
	}
	return p
}

func (r *reader) readCode() []uint32 {
	n := r.readCount(InstructionSize, "code")
	code := make([]uint32, n)
	for i := range code {
		code[i] = r.readUint32()
	}
	return code
}

func (r *reader) readConstants() []any {
	n := r.readCount(1, "constant")
	constants := make([]any, n)
	for i := range constants {
		constants[i] = r.readConstant()
	}
	return constants
}

func (r *reader) readConstant() any {
	tag := r.readByte()
	if r.err != nil {
		return nil
	}
	switch tag {
	case TagNil:
		return nil
	case TagBoolean:
		return r.readByte() != 0
	case TagInteger:
		return r.readLuaInteger()
	case TagNumber:
		return r.readLuaNumber()
	case TagShortStr, TagLongStr:
		return r.readString()
	default:
		r.offset--
		r.fail(ErrBadConstantTag, "tag 0x%02x", tag)
		return nil
	}
}

func (r *reader) readUpvalues() []Upvalue {
	n := r.readCount(2, "upvalue")
	upvalues := make([]Upvalue, n)
	for i := range upvalues {
		upvalues[i] = Upvalue{Instack: r.readByte(), Idx: r.readByte()}
	}
	return upvalues
}

func (r *reader) readProtos(parentSource string) []*Prototype {
	n := r.readCount(1, "prototype")
	protos := make([]*Prototype, n)
	for i := range protos {
		protos[i] = r.readProto(parentSource)
	}
	return protos
}

func (r *reader) readLineInfo() []uint32 {
	n := r.readCount(CIntSize, "line info")
	lineInfo := make([]uint32, n)
	for i := range lineInfo {
		lineInfo[i] = r.readUint32()
	}
	return lineInfo
}

func (r *reader) readLocVars() []LocVar {
	n := r.readCount(1+2*CIntSize, "local variable")
	locVars := make([]LocVar, n)
	for i := range locVars {
		locVars[i] = LocVar{
			VarName: r.readString(),
			StartPC: r.readUint32(),
			EndPC:   r.readUint32(),
		}
	}
	return locVars
}

func (r *reader) readUpvalueNames() []string {
	n := r.readCount(1, "upvalue name")
	names := make([]string, n)
	for i := range names {
		names[i] = r.readString()
	}
	return names
}

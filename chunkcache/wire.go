package chunkcache

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/luavm/binchunk"
)

// wireVersion is bumped whenever the encoding below changes; entries with
// another version are treated as misses.
const wireVersion = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("chunkcache: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type wireEntry struct {
	Version byte       `cbor:"1,keyasint"`
	Root    *wireProto `cbor:"2,keyasint"`
}

type wireProto struct {
	Source          string        `cbor:"1,keyasint,omitempty"`
	LineDefined     uint32        `cbor:"2,keyasint,omitempty"`
	LastLineDefined uint32        `cbor:"3,keyasint,omitempty"`
	NumParams       byte          `cbor:"4,keyasint,omitempty"`
	IsVararg        byte          `cbor:"5,keyasint,omitempty"`
	MaxStackSize    byte          `cbor:"6,keyasint"`
	Code            []uint32      `cbor:"7,keyasint"`
	Constants       []wireConst   `cbor:"8,keyasint,omitempty"`
	Upvalues        []wireUpvalue `cbor:"9,keyasint,omitempty"`
	Protos          []*wireProto  `cbor:"10,keyasint,omitempty"`
	LineInfo        []uint32      `cbor:"11,keyasint,omitempty"`
	LocVars         []wireLocVar  `cbor:"12,keyasint,omitempty"`
	UpvalueNames    []string      `cbor:"13,keyasint,omitempty"`
}

// wireConst carries a constant with its chunk tag so integers and floats
// keep their subtype. Floats travel as raw bits to preserve -0 and NaN.
type wireConst struct {
	Tag  byte   `cbor:"1,keyasint"`
	Bool bool   `cbor:"2,keyasint,omitempty"`
	Int  int64  `cbor:"3,keyasint,omitempty"`
	Num  uint64 `cbor:"4,keyasint,omitempty"`
	Str  string `cbor:"5,keyasint,omitempty"`
}

type wireUpvalue struct {
	Instack byte `cbor:"1,keyasint"`
	Idx     byte `cbor:"2,keyasint"`
}

type wireLocVar struct {
	Name    string `cbor:"1,keyasint"`
	StartPC uint32 `cbor:"2,keyasint"`
	EndPC   uint32 `cbor:"3,keyasint"`
}

// Marshal serializes a prototype tree to canonical CBOR.
func Marshal(p *binchunk.Prototype) ([]byte, error) {
	root, err := toWire(p)
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(&wireEntry{Version: wireVersion, Root: root})
}

// Unmarshal deserializes a prototype tree written by Marshal.
func Unmarshal(data []byte) (*binchunk.Prototype, error) {
	var e wireEntry
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("chunkcache: unmarshal prototype: %w", err)
	}
	if e.Version != wireVersion {
		return nil, fmt.Errorf("chunkcache: entry version %d, want %d", e.Version, wireVersion)
	}
	if e.Root == nil {
		return nil, fmt.Errorf("chunkcache: entry has no prototype")
	}
	return fromWire(e.Root)
}

func toWire(p *binchunk.Prototype) (*wireProto, error) {
	w := &wireProto{
		Source:          p.Source,
		LineDefined:     p.LineDefined,
		LastLineDefined: p.LastLineDefined,
		NumParams:       p.NumParams,
		IsVararg:        p.IsVararg,
		MaxStackSize:    p.MaxStackSize,
		Code:            p.Code,
		LineInfo:        p.LineInfo,
		UpvalueNames:    p.UpvalueNames,
	}
	for _, k := range p.Constants {
		c, err := constToWire(k)
		if err != nil {
			return nil, err
		}
		w.Constants = append(w.Constants, c)
	}
	for _, uv := range p.Upvalues {
		w.Upvalues = append(w.Upvalues, wireUpvalue{Instack: uv.Instack, Idx: uv.Idx})
	}
	for _, lv := range p.LocVars {
		w.LocVars = append(w.LocVars, wireLocVar{Name: lv.VarName, StartPC: lv.StartPC, EndPC: lv.EndPC})
	}
	for _, sub := range p.Protos {
		ws, err := toWire(sub)
		if err != nil {
			return nil, err
		}
		w.Protos = append(w.Protos, ws)
	}
	return w, nil
}

func fromWire(w *wireProto) (*binchunk.Prototype, error) {
	p := &binchunk.Prototype{
		Source:          w.Source,
		LineDefined:     w.LineDefined,
		LastLineDefined: w.LastLineDefined,
		NumParams:       w.NumParams,
		IsVararg:        w.IsVararg,
		MaxStackSize:    w.MaxStackSize,
		Code:            w.Code,
		LineInfo:        w.LineInfo,
		UpvalueNames:    w.UpvalueNames,
	}
	for _, c := range w.Constants {
		k, err := constFromWire(c)
		if err != nil {
			return nil, err
		}
		p.Constants = append(p.Constants, k)
	}
	for _, uv := range w.Upvalues {
		p.Upvalues = append(p.Upvalues, binchunk.Upvalue{Instack: uv.Instack, Idx: uv.Idx})
	}
	for _, lv := range w.LocVars {
		p.LocVars = append(p.LocVars, binchunk.LocVar{VarName: lv.Name, StartPC: lv.StartPC, EndPC: lv.EndPC})
	}
	for _, ws := range w.Protos {
		if ws == nil {
			return nil, fmt.Errorf("chunkcache: nil nested prototype")
		}
		sub, err := fromWire(ws)
		if err != nil {
			return nil, err
		}
		p.Protos = append(p.Protos, sub)
	}
	return p, nil
}

func constToWire(k any) (wireConst, error) {
	switch v := k.(type) {
	case nil:
		return wireConst{Tag: binchunk.TagNil}, nil
	case bool:
		return wireConst{Tag: binchunk.TagBoolean, Bool: v}, nil
	case int64:
		return wireConst{Tag: binchunk.TagInteger, Int: v}, nil
	case float64:
		return wireConst{Tag: binchunk.TagNumber, Num: math.Float64bits(v)}, nil
	case string:
		return wireConst{Tag: binchunk.TagShortStr, Str: v}, nil
	default:
		return wireConst{}, fmt.Errorf("chunkcache: unsupported constant type %T", k)
	}
}

func constFromWire(c wireConst) (any, error) {
	switch c.Tag {
	case binchunk.TagNil:
		return nil, nil
	case binchunk.TagBoolean:
		return c.Bool, nil
	case binchunk.TagInteger:
		return c.Int, nil
	case binchunk.TagNumber:
		return math.Float64frombits(c.Num), nil
	case binchunk.TagShortStr, binchunk.TagLongStr:
		return c.Str, nil
	default:
		return nil, fmt.Errorf("chunkcache: invalid constant tag 0x%02x", c.Tag)
	}
}

package binchunk

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Dump encodes a prototype tree in the precompiled chunk format accepted
// by Undump. Nested prototypes whose source equals their parent's are
// written with an empty source, as luac does.
func Dump(p *Prototype) ([]byte, error) {
	w := &writer{buf: make([]byte, 0, HeaderSize+64+len(p.Code)*4)}
	w.writeHeader()
	w.buf = append(w.buf, byte(len(p.Upvalues)))
	if err := w.writeProto(p, ""); err != nil {
		return nil, err
	}
	return w.buf, nil
}

type writer struct {
	buf []byte
}

func (w *writer) writeHeader() {
	w.buf = append(w.buf, LuaSignature...)
	w.buf = append(w.buf, LuacVersion, LuacFormat)
	w.buf = append(w.buf, LuacData...)
	w.buf = append(w.buf, CIntSize, CSizetSize, InstructionSize, LuaIntegerSize, LuaNumberSize)
	w.buf = binary.LittleEndian.AppendUint64(w.buf, LuacInt)
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(LuacNum))
}

func (w *writer) writeUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) writeString(s string) {
	size := uint64(len(s)) + 1
	switch {
	case s == "":
		w.buf = append(w.buf, 0)
		return
	case size < 0xFF:
		w.buf = append(w.buf, byte(size))
	default:
		w.buf = append(w.buf, 0xFF)
		w.buf = binary.LittleEndian.AppendUint64(w.buf, size)
	}
	w.buf = append(w.buf, s...)
}

func (w *writer) writeProto(p *Prototype, parentSource string) error {
	if p.Source == parentSource && parentSource != "" {
		w.writeString("")
	} else {
		w.writeString(p.Source)
	}
	w.writeUint32(p.LineDefined)
	w.writeUint32(p.LastLineDefined)
	w.buf = append(w.buf, p.NumParams, p.IsVararg, p.MaxStackSize)

	w.writeUint32(uint32(len(p.Code)))
	for _, inst := range p.Code {
		w.writeUint32(inst)
	}

	w.writeUint32(uint32(len(p.Constants)))
	for i, k := range p.Constants {
		if err := w.writeConstant(k); err != nil {
			return fmt.Errorf("constant %d: %w", i, err)
		}
	}

	w.writeUint32(uint32(len(p.Upvalues)))
	for _, uv := range p.Upvalues {
		w.buf = append(w.buf, uv.Instack, uv.Idx)
	}

	w.writeUint32(uint32(len(p.Protos)))
	for _, sub := range p.Protos {
		if err := w.writeProto(sub, p.Source); err != nil {
			return err
		}
	}

	w.writeUint32(uint32(len(p.LineInfo)))
	for _, line := range p.LineInfo {
		w.writeUint32(line)
	}

	w.writeUint32(uint32(len(p.LocVars)))
	for _, lv := range p.LocVars {
		w.writeString(lv.VarName)
		w.writeUint32(lv.StartPC)
		w.writeUint32(lv.EndPC)
	}

	w.writeUint32(uint32(len(p.UpvalueNames)))
	for _, name := range p.UpvalueNames {
		w.writeString(name)
	}
	return nil
}

func (w *writer) writeConstant(k any) error {
	switch v := k.(type) {
	case nil:
		w.buf = append(w.buf, TagNil)
	case bool:
		w.buf = append(w.buf, TagBoolean)
		if v {
			w.buf = append(w.buf, 1)
		} else {
			w.buf = append(w.buf, 0)
		}
	case int64:
		w.buf = append(w.buf, TagInteger)
		w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
	case float64:
		w.buf = append(w.buf, TagNumber)
		w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
	case string:
		if len(v) < 40 {
			w.buf = append(w.buf, TagShortStr)
		} else {
			w.buf = append(w.buf, TagLongStr)
		}
		w.writeString(v)
	default:
		return fmt.Errorf("unsupported constant type %T", k)
	}
	return nil
}

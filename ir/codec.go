package ir

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dekarrin/rezi"
)

// Encode serializes a Grammar to bytes using REZI, the same
// length-prefixed binary format the teacher uses for persisting game
// state. Pairs with Decode.
func Encode(g *Grammar) []byte {
	return rezi.EncBinary(g)
}

// Decode deserializes a Grammar previously produced by Encode. Returns an
// error if the bytes are truncated or malformed.
func Decode(data []byte) (*Grammar, error) {
	g := &Grammar{}
	n, err := rezi.DecBinary(data, g)
	if err != nil {
		return nil, fmt.Errorf("decode grammar: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("decode grammar: consumed %d/%d bytes", n, len(data))
	}
	return g, nil
}

// MarshalBinary implements encoding.BinaryMarshaler so Grammar values can be
// passed directly to rezi.EncBinary.
func (g *Grammar) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeString(&buf, derefOr(g.Start, ""))
	buf.WriteByte(boolByte(g.Start != nil))
	writeUvarint(&buf, uint64(len(g.Rules)))
	for _, r := range g.Rules {
		writeString(&buf, r.Name)
		encodeProduction(&buf, r.Production)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, the counterpart to
// MarshalBinary.
func (g *Grammar) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	start, err := readString(r)
	if err != nil {
		return err
	}
	hasStart, err := r.ReadByte()
	if err != nil {
		return err
	}
	if hasStart != 0 {
		s := start
		g.Start = &s
	} else {
		g.Start = nil
	}

	count, err := binary.ReadUvarint(r)
	if err != nil {
		return err
	}
	g.Rules = make([]Rule, 0, count)
	for i := uint64(0); i < count; i++ {
		name, err := readString(r)
		if err != nil {
			return err
		}
		prod, err := decodeProduction(r)
		if err != nil {
			return err
		}
		g.Rules = append(g.Rules, Rule{Name: name, Production: prod})
	}
	return nil
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func writeUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUvarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil && n > 0 {
		return "", err
	}
	return string(b), nil
}

const (
	tagSeq byte = iota
	tagAlt
	tagGroup
	tagRepeat
	tagTerminalChar
	tagTerminalStr
	tagClass
	tagRef
)

func encodeProduction(buf *bytes.Buffer, p Production) {
	switch v := p.(type) {
	case Sequence:
		buf.WriteByte(tagSeq)
		writeUvarint(buf, uint64(len(v.Items)))
		for _, it := range v.Items {
			encodeProduction(buf, it)
		}
	case Alternation:
		buf.WriteByte(tagAlt)
		writeUvarint(buf, uint64(len(v.Items)))
		for _, it := range v.Items {
			encodeProduction(buf, it)
		}
	case Group:
		buf.WriteByte(tagGroup)
		encodeProduction(buf, v.Inner)
	case Repeat:
		buf.WriteByte(tagRepeat)
		writeUvarint(buf, uint64(v.Quant.Min))
		buf.WriteByte(boolByte(v.Quant.Max != nil))
		if v.Quant.Max != nil {
			writeUvarint(buf, uint64(*v.Quant.Max))
		}
		encodeProduction(buf, v.Item)
	case Terminal:
		switch k := v.Kind.(type) {
		case CharLiteral:
			buf.WriteByte(tagTerminalChar)
			writeUvarint(buf, uint64(k))
		case StrLiteral:
			buf.WriteByte(tagTerminalStr)
			writeString(buf, string(k))
		}
	case Class:
		buf.WriteByte(tagClass)
		buf.WriteByte(boolByte(v.CharClass.Negated))
		writeUvarint(buf, uint64(len(v.CharClass.Chars)))
		for _, c := range v.CharClass.Chars {
			writeUvarint(buf, uint64(c))
		}
		writeUvarint(buf, uint64(len(v.CharClass.Ranges)))
		for _, rg := range v.CharClass.Ranges {
			writeUvarint(buf, uint64(rg.Lo))
			writeUvarint(buf, uint64(rg.Hi))
		}
	case Ref:
		buf.WriteByte(tagRef)
		writeString(buf, v.Name)
	default:
		panic(fmt.Sprintf("ir: unknown production type %T", p))
	}
}

func decodeProduction(r *bytes.Reader) (Production, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagSeq, tagAlt:
		n, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		items := make([]Production, 0, n)
		for i := uint64(0); i < n; i++ {
			it, err := decodeProduction(r)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		if tag == tagSeq {
			return Sequence{Items: items}, nil
		}
		return Alternation{Items: items}, nil
	case tagGroup:
		inner, err := decodeProduction(r)
		if err != nil {
			return nil, err
		}
		return Group{Inner: inner}, nil
	case tagRepeat:
		min, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		hasMax, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		var max *int
		if hasMax != 0 {
			m, err := binary.ReadUvarint(r)
			if err != nil {
				return nil, err
			}
			mi := int(m)
			max = &mi
		}
		item, err := decodeProduction(r)
		if err != nil {
			return nil, err
		}
		return Repeat{Item: item, Quant: RepeatQuant{Min: int(min), Max: max}}, nil
	case tagTerminalChar:
		c, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		return Terminal{Kind: CharLiteral(rune(c))}, nil
	case tagTerminalStr:
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		return Terminal{Kind: StrLiteral(s)}, nil
	case tagClass:
		negByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		nChars, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		chars := make([]rune, 0, nChars)
		for i := uint64(0); i < nChars; i++ {
			c, err := binary.ReadUvarint(r)
			if err != nil {
				return nil, err
			}
			chars = append(chars, rune(c))
		}
		nRanges, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		ranges := make([]CharRange, 0, nRanges)
		for i := uint64(0); i < nRanges; i++ {
			lo, err := binary.ReadUvarint(r)
			if err != nil {
				return nil, err
			}
			hi, err := binary.ReadUvarint(r)
			if err != nil {
				return nil, err
			}
			ranges = append(ranges, CharRange{Lo: rune(lo), Hi: rune(hi)})
		}
		return Class{CharClass: CharClass{Negated: negByte != 0, Chars: chars, Ranges: ranges}}, nil
	case tagRef:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		return Ref{Name: name}, nil
	default:
		return nil, fmt.Errorf("ir: unknown production tag %d", tag)
	}
}

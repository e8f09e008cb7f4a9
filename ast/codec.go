package ast

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/ebnflow/span"
)

// Encode serializes an Ast to bytes using REZI, for callers that build a
// tree once and want to persist or transmit it rather than re-parse.
// Pairs with Decode.
func Encode(a *Ast) []byte {
	return rezi.EncBinary(a)
}

// Decode deserializes an Ast previously produced by Encode.
func Decode(data []byte) (*Ast, error) {
	a := &Ast{}
	n, err := rezi.DecBinary(data, a)
	if err != nil {
		return nil, fmt.Errorf("decode ast: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("decode ast: consumed %d/%d bytes", n, len(data))
	}
	return a, nil
}

// MarshalBinary implements encoding.BinaryMarshaler so Ast values can be
// passed directly to rezi.EncBinary.
func (a *Ast) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeUvarint(&buf, uint64(a.Metadata.InputLength))
	writeUvarint(&buf, uint64(a.Metadata.TokenCount))
	buf.WriteByte(boolByte(a.Metadata.Success))
	encodeNode(&buf, a.Root)
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *Ast) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	inputLen, err := binary.ReadUvarint(r)
	if err != nil {
		return err
	}
	tokenCount, err := binary.ReadUvarint(r)
	if err != nil {
		return err
	}
	success, err := r.ReadByte()
	if err != nil {
		return err
	}
	root, err := decodeNode(r)
	if err != nil {
		return err
	}
	a.Metadata = Metadata{InputLength: int(inputLen), TokenCount: int(tokenCount), Success: success != 0}
	a.Root = root
	return nil
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
	if n > 0 {
		if _, err := r.Read(b); err != nil {
			return "", err
		}
	}
	return string(b), nil
}

func writeSpan(buf *bytes.Buffer, sp span.Span) {
	writeUvarint(buf, uint64(sp.Start))
	writeUvarint(buf, uint64(sp.End))
	writeUvarint(buf, uint64(sp.Line))
	writeUvarint(buf, uint64(sp.Column))
}

func readSpan(r *bytes.Reader) (span.Span, error) {
	start, err := binary.ReadUvarint(r)
	if err != nil {
		return span.Span{}, err
	}
	end, err := binary.ReadUvarint(r)
	if err != nil {
		return span.Span{}, err
	}
	line, err := binary.ReadUvarint(r)
	if err != nil {
		return span.Span{}, err
	}
	col, err := binary.ReadUvarint(r)
	if err != nil {
		return span.Span{}, err
	}
	return span.Span{Start: int(start), End: int(end), Line: int(line), Column: int(col)}, nil
}

const (
	tagTerminal byte = iota
	tagSequence
	tagAlternation
	tagRepetition
	tagRule
)

func encodeNode(buf *bytes.Buffer, n Node) {
	switch v := n.(type) {
	case Terminal:
		buf.WriteByte(tagTerminal)
		writeString(buf, v.Value)
		writeSpan(buf, v.Span)
	case Sequence:
		buf.WriteByte(tagSequence)
		writeUvarint(buf, uint64(len(v.Nodes)))
		for _, c := range v.Nodes {
			encodeNode(buf, c)
		}
		writeSpan(buf, v.Span)
	case Alternation:
		buf.WriteByte(tagAlternation)
		writeUvarint(buf, uint64(len(v.Nodes)))
		for _, c := range v.Nodes {
			encodeNode(buf, c)
		}
		writeSpan(buf, v.Span)
	case Repetition:
		buf.WriteByte(tagRepetition)
		writeUvarint(buf, uint64(len(v.Nodes)))
		for _, c := range v.Nodes {
			encodeNode(buf, c)
		}
		writeSpan(buf, v.Span)
	case Rule:
		buf.WriteByte(tagRule)
		writeString(buf, v.Name)
		encodeNode(buf, v.Node)
		writeSpan(buf, v.Span)
	default:
		panic(fmt.Sprintf("ast: unknown node type %T", n))
	}
}

func decodeNode(r *bytes.Reader) (Node, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagTerminal:
		val, err := readString(r)
		if err != nil {
			return nil, err
		}
		sp, err := readSpan(r)
		if err != nil {
			return nil, err
		}
		return Terminal{Value: val, Span: sp}, nil
	case tagSequence, tagAlternation, tagRepetition:
		n, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		nodes := make([]Node, 0, n)
		for i := uint64(0); i < n; i++ {
			c, err := decodeNode(r)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, c)
		}
		sp, err := readSpan(r)
		if err != nil {
			return nil, err
		}
		switch tag {
		case tagSequence:
			return Sequence{Nodes: nodes, Span: sp}, nil
		case tagAlternation:
			return Alternation{Nodes: nodes, Span: sp}, nil
		default:
			return Repetition{Nodes: nodes, Span: sp}, nil
		}
	case tagRule:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		inner, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		sp, err := readSpan(r)
		if err != nil {
			return nil, err
		}
		return Rule{Name: name, Node: inner, Span: sp}, nil
	default:
		return nil, fmt.Errorf("ast: unknown node tag %d", tag)
	}
}

package ir

import (
	"encoding/binary"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a content hash of the grammar's rule set, stable
// across process runs, suitable for use as a cache key by callers that
// validate a grammar once and then build many engines against it (see
// validate.Cache).
func (g *Grammar) Fingerprint() [32]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors when a non-nil key exceeds the max
		// key size; we never pass a key, so this is unreachable.
		panic(err)
	}

	if g.Start != nil {
		h.Write([]byte("start:"))
		h.Write([]byte(*g.Start))
	}
	for _, r := range g.Rules {
		h.Write([]byte("rule:"))
		h.Write([]byte(r.Name))
		writeProduction(h, r.Production)
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

type byteWriter interface {
	Write(p []byte) (int, error)
}

func writeProduction(h byteWriter, p Production) {
	switch v := p.(type) {
	case Sequence:
		h.Write([]byte("seq("))
		for _, it := range v.Items {
			writeProduction(h, it)
		}
		h.Write([]byte(")"))
	case Alternation:
		h.Write([]byte("alt("))
		for _, it := range v.Items {
			writeProduction(h, it)
		}
		h.Write([]byte(")"))
	case Group:
		h.Write([]byte("grp("))
		writeProduction(h, v.Inner)
		h.Write([]byte(")"))
	case Repeat:
		h.Write([]byte("rep("))
		h.Write([]byte(strconv.Itoa(v.Quant.Min)))
		h.Write([]byte(","))
		if v.Quant.Max != nil {
			h.Write([]byte(strconv.Itoa(*v.Quant.Max)))
		} else {
			h.Write([]byte("inf"))
		}
		writeProduction(h, v.Item)
		h.Write([]byte(")"))
	case Terminal:
		h.Write([]byte("term("))
		switch k := v.Kind.(type) {
		case CharLiteral:
			var buf [4]byte
			n := binary.PutVarint(buf[:], int64(k))
			h.Write(buf[:n])
		case StrLiteral:
			h.Write([]byte(k))
		}
		h.Write([]byte(")"))
	case Class:
		h.Write([]byte("class("))
		if v.CharClass.Negated {
			h.Write([]byte("!"))
		}
		for _, c := range v.CharClass.Chars {
			var buf [4]byte
			n := binary.PutVarint(buf[:], int64(c))
			h.Write(buf[:n])
		}
		for _, rg := range v.CharClass.Ranges {
			var buf [8]byte
			n1 := binary.PutVarint(buf[:4], int64(rg.Lo))
			n2 := binary.PutVarint(buf[4:], int64(rg.Hi))
			h.Write(buf[:n1])
			h.Write(buf[4 : 4+n2])
		}
		h.Write([]byte(")"))
	case Ref:
		h.Write([]byte("ref("))
		h.Write([]byte(v.Name))
		h.Write([]byte(")"))
	}
}

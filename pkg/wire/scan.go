package wire

import "strings"

// MaxDepth bounds composite nesting accepted by the scanner.
const MaxDepth = 4096

// ScanToken scans the single value that starts at src[pos].
func ScanToken(src string, pos int) (Token, error) {
	return scanValue(src, pos, len(src), 0)
}

// Split tokenizes a composite body into its top-level values, left to right.
func Split(body string) ([]Token, error) {
	return SplitRange(body, 0, len(body))
}

// SplitRange tokenizes src[start:end]. Token offsets stay relative to src,
// so tokens can be sliced out of the original record without copying.
func SplitRange(src string, start, end int) ([]Token, error) {
	var toks []Token
	for pos := start; pos < end; {
		tok, err := scanValue(src, pos, end, 0)
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		pos = tok.end
	}
	return toks, nil
}

func scanValue(src string, pos, limit, depth int) (Token, error) {
	if pos >= limit {
		return Token{}, unterminated(pos)
	}
	tag := Kind(src[pos])
	switch tag {
	case KindNull:
		if err := expectByte(src, pos+1, limit, ';'); err != nil {
			return Token{}, err
		}
		return Token{src: src, start: pos, end: pos + 2, pstart: pos + 1, pend: pos + 1, kind: tag}, nil

	case KindBool, KindInt, KindFloat:
		if err := expectByte(src, pos+1, limit, ':'); err != nil {
			return Token{}, err
		}
		p := pos + 2
		semi := strings.IndexByte(src[p:limit], ';')
		if semi < 0 {
			return Token{}, unterminated(pos)
		}
		return Token{src: src, start: pos, end: p + semi + 1, pstart: p, pend: p + semi, kind: tag}, nil

	case KindString:
		n, p, err := readLength(src, pos+1, limit)
		if err != nil {
			return Token{}, err
		}
		if err := expectByte(src, p, limit, '"'); err != nil {
			return Token{}, err
		}
		p++
		// payload plus the closing `";`
		if n > uint64(limit-p) || limit-p-int(n) < 2 {
			return Token{}, formatErr(pos, "declared string length %d overruns input", n)
		}
		e := p + int(n)
		if src[e] != '"' || src[e+1] != ';' {
			return Token{}, formatErr(e, "string of declared length %d is not closed", n)
		}
		return Token{src: src, start: pos, end: e + 2, pstart: p, pend: e, kind: tag}, nil

	case KindArray, KindObject:
		if depth >= MaxDepth {
			return Token{}, formatErr(pos, "nesting exceeds %d levels", MaxDepth)
		}
		h, body, err := parseHeader(src, pos, limit)
		if err != nil {
			return Token{}, err
		}
		rbrace, err := scanBody(src, body, limit, h.Count, depth+1)
		if err != nil {
			return Token{}, err
		}
		return Token{src: src, start: pos, end: rbrace + 1, pstart: body, pend: rbrace, kind: tag, header: h}, nil

	default:
		return Token{}, formatErr(pos, "unrecognized type tag %q", src[pos])
	}
}

// scanBody walks count key/value pairs starting at pos and returns the
// offset of the closing brace. Child lengths drive the walk, so string
// payloads containing quotes or braces never shift a boundary.
func scanBody(src string, pos, limit, count, depth int) (int, error) {
	for i := 0; i < 2*count; i++ {
		if pos < limit && src[pos] == '}' {
			return 0, formatErr(pos, "count mismatch: declared %d entries, found %d", count, i/2)
		}
		tok, err := scanValue(src, pos, limit, depth)
		if err != nil {
			return 0, err
		}
		if i%2 == 0 && !tok.kind.isKey() {
			return 0, formatErr(pos, "%s value in key position", tok.kind)
		}
		pos = tok.end
	}
	if pos >= limit {
		return 0, unterminated(pos)
	}
	if src[pos] != '}' {
		return 0, formatErr(pos, "count mismatch: more than %d declared entries", count)
	}
	return pos, nil
}

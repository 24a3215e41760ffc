package wire

// Entry is one key/value pair of a composite body.
type Entry struct {
	Key   Token
	Value Token
}

// FieldMap is the ordered pairing of a body's tokens. Duplicate keys are
// kept in body order.
type FieldMap struct {
	entries []Entry
}

// Pair groups tokens two at a time into a FieldMap.
func Pair(tokens []Token) (FieldMap, error) {
	if len(tokens)%2 != 0 {
		return FieldMap{}, formatErr(tokens[len(tokens)-1].start, "dangling entry")
	}
	entries := make([]Entry, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		if !tokens[i].kind.isKey() {
			return FieldMap{}, formatErr(tokens[i].start, "%s value in key position", tokens[i].kind)
		}
		entries = append(entries, Entry{Key: tokens[i], Value: tokens[i+1]})
	}
	return FieldMap{entries: entries}, nil
}

// Len returns the number of entries, duplicates included.
func (m FieldMap) Len() int { return len(m.entries) }

// Entries returns the entries in body order. The slice must not be modified.
func (m FieldMap) Entries() []Entry { return m.entries }

// Lookup returns the value of the last entry whose key encodes exactly like key.
func (m FieldMap) Lookup(key Token) (Token, bool) {
	return m.LookupAny(key)
}

// LookupAny returns the value of the last entry whose key encodes like any
// of keys.
func (m FieldMap) LookupAny(keys ...Token) (Token, bool) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		raw := m.entries[i].Key.Raw()
		for _, k := range keys {
			if raw == k.Raw() {
				return m.entries[i].Value, true
			}
		}
	}
	return Token{}, false
}

// LookupAll returns every value stored under key, in body order.
func (m FieldMap) LookupAll(key Token) []Token {
	raw := key.Raw()
	var out []Token
	for _, e := range m.entries {
		if e.Key.Raw() == raw {
			out = append(out, e.Value)
		}
	}
	return out
}

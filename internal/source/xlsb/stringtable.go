package xlsb

import "fmt"

// sharedStrings holds the xl/sharedStrings.bin entries in index order,
// grounded on go-xlsb's stringtable package.
type sharedStrings struct {
	values []string
}

func parseSharedStrings(data []byte) (*sharedStrings, error) {
	st := &sharedStrings{}
	rs := newRecordStream(data)
	for {
		recID, payload, err := rs.next()
		if err != nil {
			break
		}
		switch recID {
		case recSi:
			s, err := parseSI(payload)
			if err != nil {
				s = ""
			}
			st.values = append(st.values, s)
		case recSstEnd:
			return st, nil
		}
	}
	return st, nil
}

// parseSI decodes one BrtSSTItem payload: a run of rich-text flags
// followed by the plain string text. Formatting runs are discarded; only
// the text matters for columnar reads.
func parseSI(data []byte) (string, error) {
	c := newPayloadCursor(data)
	if _, err := c.u8(); err != nil { // flags byte
		return "", err
	}
	return c.rkString()
}

// Get resolves a shared-string index; idx out of range is reported rather
// than panicking, since a corrupt cell record can name any uint64.
func (st *sharedStrings) Get(idx uint64) (string, error) {
	if idx >= uint64(len(st.values)) {
		return "", fmt.Errorf("xlsb: shared string index %d out of range (table has %d entries)", idx, len(st.values))
	}
	return st.values[idx], nil
}

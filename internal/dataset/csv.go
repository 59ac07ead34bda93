package dataset

type parseState int

const (
	startRecord parseState = iota
	startField
	inField
	inQuotedField
	quoteInQuotedField
)

// splitRecords breaks comma-separated text into records of fields.
//
// Quoting follows the lenient spreadsheet dialect: a field that opens with
// a double quote may span lines, and a doubled quote inside it is one
// literal quote. A lone quote that is followed by anything other than a
// comma or a line break closes the quoted section, and the rest of the
// field is taken as plain text. Quotes in an unquoted field are literal.
// A field still open at end of input is kept. No input is an error, so
// every line of the file lands in some record.
//
// Line breaks are \n, \r\n or a lone \r. Blank lines produce no record.
func splitRecords(data []byte) [][]string {
	var (
		records [][]string
		record  []string
		field   []byte
	)

	state := startRecord

	saveField := func() {
		record = append(record, string(field))
		field = field[:0]
	}

	endRecord := func() {
		saveField()
		records = append(records, record)
		record = nil
		state = startRecord
	}

	for i := 0; i < len(data); i++ {
		c := data[i]

		if state == startRecord {
			if c == '\n' || c == '\r' {
				continue
			}

			state = startField
		}

		switch state {
		case startField:
			switch c {
			case '"':
				state = inQuotedField
			case ',':
				saveField()
			case '\n', '\r':
				endRecord()
				i = skipLF(data, i)
			default:
				field = append(field, c)
				state = inField
			}
		case inField:
			switch c {
			case ',':
				saveField()
				state = startField
			case '\n', '\r':
				endRecord()
				i = skipLF(data, i)
			default:
				field = append(field, c)
			}
		case inQuotedField:
			if c == '"' {
				state = quoteInQuotedField
			} else {
				field = append(field, c)
			}
		case quoteInQuotedField:
			switch c {
			case '"':
				field = append(field, '"')
				state = inQuotedField
			case ',':
				saveField()
				state = startField
			case '\n', '\r':
				endRecord()
				i = skipLF(data, i)
			default:
				field = append(field, c)
				state = inField
			}
		}
	}

	if state != startRecord {
		endRecord()
	}

	return records
}

// skipLF returns the index of the \n completing a \r\n break at i, or i.
func skipLF(data []byte, i int) int {
	if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
		return i + 1
	}

	return i
}

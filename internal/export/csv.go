package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
)

// ToCSV writes a header row from the first record's keys and one row per
// record. Fields holding a comma, quote or newline are double-quoted. No
// records yields an empty artifact, not an error.
func ToCSV(records []Record) (Blob, error) {
	if len(records) == 0 {
		return Blob{Data: []byte{}, MIMEType: MIMECSV}, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := records[0].Keys()
	if err := w.Write(header); err != nil {
		return Blob{}, err
	}
	row := make([]string, len(header))
	for _, rec := range records {
		for i, key := range header {
			v, _ := rec.Get(key)
			row[i] = FormatValue(v)
		}
		if err := w.Write(row); err != nil {
			return Blob{}, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Blob{}, err
	}
	return Blob{Data: buf.Bytes(), MIMEType: MIMECSV}, nil
}

// ToJSON pretty-prints records with a two space indent.
func ToJSON(records []Record) (Blob, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return Blob{}, err
	}
	return Blob{Data: data, MIMEType: MIMEJSON}, nil
}

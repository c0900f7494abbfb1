package services

import "strings"

// BulkLine is one validated line from a bulk-import paste.
type BulkLine struct {
	IMEI  string
	ICCID string
}

// ParseBulkLines parses pasted "imei,iccid" lines against the identifiers
// already stored. It returns the parsed lines in input order and the
// 1-based numbers of every invalid line. A line is invalid when it does not
// split into two non-empty fields, when its imei or iccid already exists,
// or when it repeats an identifier from an earlier line in the same batch.
// The first occurrence in a batch stays valid; only the repeats are flagged.
func ParseBulkLines(text string, existingIMEI, existingICCID map[string]struct{}) ([]BulkLine, []int) {
	var parsed []BulkLine
	var invalid []int

	seenIMEI := make(map[string]struct{})
	seenICCID := make(map[string]struct{})

	lineNo := 0
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lineNo++

		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			invalid = append(invalid, lineNo)
			continue
		}
		imei := strings.TrimSpace(parts[0])
		iccid := strings.TrimSpace(parts[1])
		if imei == "" || iccid == "" {
			invalid = append(invalid, lineNo)
			continue
		}

		if _, ok := existingIMEI[imei]; ok {
			invalid = append(invalid, lineNo)
			continue
		}
		if _, ok := existingICCID[iccid]; ok {
			invalid = append(invalid, lineNo)
			continue
		}
		if _, ok := seenIMEI[imei]; ok {
			invalid = append(invalid, lineNo)
			continue
		}
		if _, ok := seenICCID[iccid]; ok {
			invalid = append(invalid, lineNo)
			continue
		}

		seenIMEI[imei] = struct{}{}
		seenICCID[iccid] = struct{}{}
		parsed = append(parsed, BulkLine{IMEI: imei, ICCID: iccid})
	}

	return parsed, invalid
}

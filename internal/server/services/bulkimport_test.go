package services

import (
	"reflect"
	"testing"
)

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func TestParseBulkLines(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		existingIMEI  map[string]struct{}
		existingICCID map[string]struct{}
		wantLines     []BulkLine
		wantInvalid   []int
	}{
		{
			name:      "valid batch in input order",
			text:      "111,aaa\n222,bbb\n333,ccc",
			wantLines: []BulkLine{{"111", "aaa"}, {"222", "bbb"}, {"333", "ccc"}},
		},
		{
			name:      "trims fields and skips blank lines",
			text:      "  111 , aaa  \n\n\n222,bbb\n",
			wantLines: []BulkLine{{"111", "aaa"}, {"222", "bbb"}},
		},
		{
			name:        "missing field is invalid",
			text:        "111,aaa\n222\n,ccc",
			wantLines:   []BulkLine{{"111", "aaa"}},
			wantInvalid: []int{2, 3},
		},
		{
			name:          "existing imei and existing iccid collide independently",
			text:          "A,2\nB,1\nC,3",
			existingIMEI:  set("A"),
			existingICCID: set("1"),
			wantLines:     []BulkLine{{"C", "3"}},
			wantInvalid:   []int{1, 2},
		},
		{
			name:        "in-batch repeat flags only the later line",
			text:        "X,10\nX,11",
			wantLines:   []BulkLine{{"X", "10"}},
			wantInvalid: []int{2},
		},
		{
			name:        "in-batch iccid repeat flags only the later line",
			text:        "10,X\n11,X",
			wantLines:   []BulkLine{{"10", "X"}},
			wantInvalid: []int{2},
		},
		{
			name: "empty input",
			text: "\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, invalid := ParseBulkLines(tt.text, tt.existingIMEI, tt.existingICCID)
			if !reflect.DeepEqual(lines, tt.wantLines) {
				t.Errorf("lines = %v, want %v", lines, tt.wantLines)
			}
			if !reflect.DeepEqual(invalid, tt.wantInvalid) {
				t.Errorf("invalid = %v, want %v", invalid, tt.wantInvalid)
			}
		})
	}
}

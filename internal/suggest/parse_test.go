package suggest

import (
	"testing"
)

func TestParseDrafts(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []Draft
		wantErr bool
	}{
		{
			name: "plain json array",
			raw:  `[{"name":"Hammer","description":"claw hammer","quantity":1},{"name":"Nails","quantity":200}]`,
			want: []Draft{
				{Name: "Hammer", Description: "claw hammer", Quantity: 1},
				{Name: "Nails", Quantity: 200},
			},
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n[{\"name\":\"Tent\",\"quantity\":1}]\n```",
			want: []Draft{{Name: "Tent", Quantity: 1}},
		},
		{
			name: "fenced without language tag",
			raw:  "```\n[{\"name\":\"Rope\",\"quantity\":2}]\n```",
			want: []Draft{{Name: "Rope", Quantity: 2}},
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: []Draft{},
		},
		{
			name: "missing quantity defaults to one",
			raw:  `[{"name":"Lantern"}]`,
			want: []Draft{{Name: "Lantern", Quantity: 1}},
		},
		{
			name: "blank names dropped",
			raw:  `[{"name":"  ","quantity":3},{"name":"Stove","quantity":1}]`,
			want: []Draft{{Name: "Stove", Quantity: 1}},
		},
		{
			name:    "prose instead of json",
			raw:     "Sure! Here are your items.",
			wantErr: true,
		},
		{
			name:    "empty response",
			raw:     "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDrafts(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDrafts(%q) expected error, got %v", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDrafts(%q) returned error: %v", tt.raw, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseDrafts(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("draft %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

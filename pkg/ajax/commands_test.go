package ajax

import (
	"testing"
)

func TestDecode(t *testing.T) {
	payload := `[{"command":"settings","selector":"","data":""},` +
		`{"command":"insert","selector":".cstable","data":"<table></table>"}]`

	tests := []struct {
		name    string
		body    string
		wantLen int
		wantErr bool
	}{
		{
			name:    "bare JSON array",
			body:    payload,
			wantLen: 2,
		},
		{
			name:    "textarea-wrapped array",
			body:    `<html><body><textarea>` + payload + `</textarea></body></html>`,
			wantLen: 2,
		},
		{
			name:    "leading whitespace",
			body:    "\n  " + payload,
			wantLen: 2,
		},
		{
			name:    "empty body",
			body:    "",
			wantErr: true,
		},
		{
			name:    "page without textarea",
			body:    `<html><body><p>maintenance</p></body></html>`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			body:    `[{"command": "insert",`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commands, err := Decode([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(commands) != tt.wantLen {
				t.Fatalf("got %d commands, want %d", len(commands), tt.wantLen)
			}
		})
	}
}

func TestFindInsert(t *testing.T) {
	commands := []Command{
		{Command: "settings", Selector: ".cstable", Data: "ignored, not an insert"},
		{Command: "insert", Selector: ".cstable", Data: "<tbody></tbody>"},
		{Command: "insert", Selector: ".orders", Data: "<table></table>"},
		{Command: "insert", Selector: ".empty", Data: ""},
	}

	tests := []struct {
		name     string
		selector string
		want     string
		ok       bool
	}{
		{name: "dotted selector", selector: ".cstable", want: "<tbody></tbody>", ok: true},
		{name: "bare selector", selector: "orders", want: "<table></table>", ok: true},
		{name: "insert with empty data ignored", selector: ".empty", ok: false},
		{name: "unknown selector", selector: ".missing", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ok := FindInsert(commands, tt.selector)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if data != tt.want {
				t.Errorf("data = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestSectionSelector(t *testing.T) {
	cmd := Command{Command: "insert", Selector: ".case_detials", Data: "x"}
	if got := cmd.SectionSelector(); got != "case_detials" {
		t.Errorf("SectionSelector() = %q, want %q", got, "case_detials")
	}
}

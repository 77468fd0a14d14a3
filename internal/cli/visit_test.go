package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadEntries(t *testing.T) {
	path := writeFile(t, "visit.json", `[
		{"nombre": "Raimundo Chico", "atendido": true, "detalle": "Cambio de mouse",
		 "fotos": ["/fotos/pc1.jpg", "/fotos/pc2.jpg"],
		 "checklist": {"Revisión Cables": {"done": true, "time": "11:00"}},
		 "firma": [[{"x": 1, "y": 2}, {"x": 3, "y": 4}]]},
		{"nombre": "Raimundo Grande", "atendido": false, "detalle": "Vacaciones", "firma_path": "/tmp/f.png"}
	]`)

	entries, err := loadEntries(path)
	if err != nil {
		t.Fatalf("loadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Name != "Raimundo Chico" || !first.Attended || len(first.Photos) != 2 {
		t.Errorf("unexpected first entry %+v", first)
	}
	if m := first.Checklist["Revisión Cables"]; !m.Done || m.Time != "11:00" {
		t.Errorf("checklist not parsed: %+v", first.Checklist)
	}
	if len(first.SignatureStrokes) != 1 || first.SignatureStrokes[0][1].X != 3 {
		t.Errorf("strokes not parsed: %+v", first.SignatureStrokes)
	}
	if entries[1].Attended || entries[1].SignaturePath != "/tmp/f.png" {
		t.Errorf("unexpected second entry %+v", entries[1])
	}
}

func TestLoadEntries_Errors(t *testing.T) {
	if _, err := loadEntries(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := loadEntries(writeFile(t, "bad.json", `{"nombre": "x"}`)); err == nil {
		t.Error("expected error for non-array JSON")
	}
}

func TestVisitFlagsRequest(t *testing.T) {
	flags := visitFlags{
		client:      "Intermar",
		technician:  "David Quezada",
		strokesPath: writeFile(t, "firma.json", `[[{"x": 0, "y": 0}]]`),
	}

	req, err := flags.request(12)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if req.VisitID != 12 || !req.Deliver || req.ClientName != "Intermar" {
		t.Errorf("unexpected request %+v", req)
	}
	if len(req.SignatureStrokes) != 1 || len(req.Entries) != 0 {
		t.Errorf("unexpected strokes/entries: %+v", req)
	}
}

func TestVisitFlagsDelivery(t *testing.T) {
	tests := []struct {
		args        []string
		wantDeliver bool
	}{
		{[]string{"-c", "Intermar", "-t", "Ana"}, true},
		{[]string{"-c", "Intermar", "-t", "Ana", "--no-deliver"}, false},
	}
	for _, tt := range tests {
		var flags visitFlags
		cmd := &cobra.Command{Use: "create"}
		flags.bind(cmd)
		if err := cmd.ParseFlags(tt.args); err != nil {
			t.Fatalf("ParseFlags(%v): %v", tt.args, err)
		}

		req, err := flags.request(0)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if req.Deliver != tt.wantDeliver {
			t.Errorf("args %v: Deliver = %v, want %v", tt.args, req.Deliver, tt.wantDeliver)
		}
	}
}

func TestParseVisitID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseVisitID(tt.arg)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseVisitID(%q) = %d, %v", tt.arg, got, err)
		}
	}
}

func TestCheckProvider(t *testing.T) {
	if r := checkProvider("Mail", "none"); r.Status != "⚠" {
		t.Errorf("expected warning for none, got %+v", r)
	}
	if r := checkProvider("Mail", "smtp"); r.Status != "✓" {
		t.Errorf("expected pass for smtp, got %+v", r)
	}
}

package dicom

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

func TestGetTagByName_CaseInsensitive(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"institutionname", "InstitutionName"},
		{"INSTITUTIONNAME", "InstitutionName"},
		{"  StationName ", "StationName"},
		{"windowcenter", "WindowCenter"},
		{"WINDOWWIDTH", "WindowWidth"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			info, err := GetTagByName(tc.input)
			if err != nil {
				t.Fatalf("GetTagByName(%q) returned error: %v", tc.input, err)
			}
			if info.Name != tc.expected {
				t.Errorf("GetTagByName(%q).Name = %q, want %q", tc.input, info.Name, tc.expected)
			}
		})
	}
}

func TestGetTagByName_Suggestion(t *testing.T) {
	tests := []struct {
		typo       string
		suggestion string
	}{
		{"InstitutonName", "InstitutionName"},
		{"Manufacurer", "Manufacturer"},
		{"WindowCentre", "WindowCenter"},
		{"SeriesDescritpion", "SeriesDescription"},
	}

	for _, tc := range tests {
		t.Run(tc.typo, func(t *testing.T) {
			_, err := GetTagByName(tc.typo)
			if err == nil {
				t.Fatalf("GetTagByName(%q) should return error", tc.typo)
			}
			if !strings.Contains(err.Error(), tc.suggestion) {
				t.Errorf("Error for %q should suggest %q, got: %v", tc.typo, tc.suggestion, err)
			}
		})
	}
}

func TestGetTagByName_Unknown(t *testing.T) {
	for _, name := range []string{"", "CompletelyUnrelatedAttributeName"} {
		_, err := GetTagByName(name)
		if err == nil {
			t.Errorf("GetTagByName(%q) should fail", name)
			continue
		}
		if strings.Contains(err.Error(), "did you mean") {
			t.Errorf("GetTagByName(%q) should not suggest anything, got %v", name, err)
		}
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		input     string
		wantName  string
		wantValue string
		wantErr   bool
	}{
		{"InstitutionName=Pic du Midi", "InstitutionName", "Pic du Midi", false},
		{"stationname= T1M ", "StationName", "T1M", false},
		{"WindowCenter=40", "WindowCenter", "40", false},
		{"Manufacturer", "", "", true},
		{"NotATag=1", "", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			name, value, err := ParseTag(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseTag(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if name != tc.wantName || value != tc.wantValue {
				t.Errorf("ParseTag(%q) = (%q, %q), want (%q, %q)", tc.input, name, value, tc.wantName, tc.wantValue)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"windowcenter", "windowcentre", 2},
		{"same", "same", 0},
	}

	for _, tc := range tests {
		if got := levenshteinDistance(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestExport_CustomTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged.dcm")

	err := Export(path, testCanvas(t), ExportOptions{
		Key: "tagged",
		Tags: map[string]string{
			"InstitutionName": "Pic du Midi",
			"WindowCenter":    "40",
		},
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	want := map[tag.Tag]string{
		tag.InstitutionName: "Pic du Midi",
		tag.WindowCenter:    "40",
		tag.WindowWidth:     "256",
	}
	for tg, value := range want {
		elem, err := ds.FindElementByTag(tg)
		if err != nil {
			t.Errorf("%v missing: %v", tg, err)
			continue
		}
		if got := strings.TrimRight(dicom.MustGetStrings(elem.Value)[0], " \x00"); got != value {
			t.Errorf("%v = %q, want %q", tg, got, value)
		}
	}

	// One WindowCenter element, replaced rather than duplicated.
	count := 0
	for _, e := range ds.Elements {
		if e.Tag == tag.WindowCenter {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one WindowCenter, got %d", count)
	}
}

func TestExport_UnknownTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.dcm")
	err := Export(path, testCanvas(t), ExportOptions{Tags: map[string]string{"Telescope": "x"}})
	if err == nil {
		t.Errorf("Expected error for unknown tag")
	}
}

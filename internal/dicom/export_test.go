package dicom

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/starforge/internal/field"
)

func testCanvas(t *testing.T) *field.Canvas {
	t.Helper()
	c, err := field.NewCanvas(24, 16)
	if err != nil {
		t.Fatalf("NewCanvas failed: %v", err)
	}
	field.PaintStar(c, 10, 8, 220, field.SizeMedium)
	return c
}

func TestExport_ParsesBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.dcm")
	c := testCanvas(t)

	err := Export(path, c, ExportOptions{Key: "input_image.bin", Comments: "seed=42 stars=1"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		t.Fatalf("Failed to parse DICOM file: %v", err)
	}

	ints := []struct {
		tag  tag.Tag
		name string
		want int
	}{
		{tag.Rows, "Rows", 16},
		{tag.Columns, "Columns", 24},
		{tag.BitsAllocated, "BitsAllocated", 8},
		{tag.SamplesPerPixel, "SamplesPerPixel", 1},
	}
	for _, it := range ints {
		elem, err := ds.FindElementByTag(it.tag)
		if err != nil {
			t.Errorf("%s should exist: %v", it.name, err)
			continue
		}
		if got := dicom.MustGetInts(elem.Value); len(got) != 1 || got[0] != it.want {
			t.Errorf("%s = %v, want %d", it.name, got, it.want)
		}
	}

	strs := []struct {
		tag  tag.Tag
		name string
		want string
	}{
		{tag.SOPClassUID, "SOPClassUID", SecondaryCaptureClass},
		{tag.Modality, "Modality", "OT"},
		{tag.PhotometricInterpretation, "PhotometricInterpretation", "MONOCHROME2"},
		{tag.ImageComments, "ImageComments", "seed=42 stars=1"},
	}
	for _, st := range strs {
		elem, err := ds.FindElementByTag(st.tag)
		if err != nil {
			t.Errorf("%s should exist: %v", st.name, err)
			continue
		}
		got := dicom.MustGetStrings(elem.Value)
		if len(got) != 1 || strings.TrimRight(got[0], " \x00") != st.want {
			t.Errorf("%s = %v, want %q", st.name, got, st.want)
		}
	}

	if _, err := ds.FindElementByTag(tag.PixelData); err != nil {
		t.Errorf("PixelData tag should exist: %v", err)
	}
	t.Logf("✓ Secondary Capture export parsed back")
}

func TestBuildDataset_DeterministicUIDs(t *testing.T) {
	c := testCanvas(t)

	uid := func(opts ExportOptions, tg tag.Tag) string {
		ds, err := BuildDataset(c, opts)
		if err != nil {
			t.Fatalf("BuildDataset failed: %v", err)
		}
		elem, err := ds.FindElementByTag(tg)
		if err != nil {
			t.Fatalf("Tag missing: %v", err)
		}
		return dicom.MustGetStrings(elem.Value)[0]
	}

	a := uid(ExportOptions{Key: "run", InstanceNumber: 1}, tag.SOPInstanceUID)
	b := uid(ExportOptions{Key: "run", InstanceNumber: 1}, tag.SOPInstanceUID)
	d := uid(ExportOptions{Key: "run", InstanceNumber: 2}, tag.SOPInstanceUID)
	if a != b {
		t.Errorf("Same key should give the same SOPInstanceUID")
	}
	if a == d {
		t.Errorf("Different instances should have different SOPInstanceUIDs")
	}
	if !strings.HasPrefix(a, "2.25.") {
		t.Errorf("Expected UUID-derived UID, got %s", a)
	}

	s1 := uid(ExportOptions{Key: "run", InstanceNumber: 1}, tag.SeriesInstanceUID)
	s2 := uid(ExportOptions{Key: "run", InstanceNumber: 2}, tag.SeriesInstanceUID)
	if s1 != s2 {
		t.Errorf("Frames of one batch should share a series")
	}
}

func TestBuildDataset_PixelsCopied(t *testing.T) {
	c := testCanvas(t)
	ds, err := BuildDataset(c, ExportOptions{Key: "k"})
	if err != nil {
		t.Fatalf("BuildDataset failed: %v", err)
	}

	var buf bytes.Buffer
	if err := dicom.Write(&buf, ds); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), c.Pix()) {
		t.Errorf("Encoded dataset should contain the canvas samples verbatim")
	}
}

func TestBuildDataset_NilCanvas(t *testing.T) {
	if _, err := BuildDataset(nil, ExportOptions{}); err == nil {
		t.Errorf("Expected error for nil canvas")
	}
}

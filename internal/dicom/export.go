// Package dicom exports star-field canvases as DICOM Secondary Capture
// images so frames can be inspected with standard medical and astronomy
// viewers that read DICOM.
package dicom

import (
	"fmt"
	"os"
	"time"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/starforge/internal/field"
	"github.com/mrsinham/starforge/internal/util"
)

// Well-known UIDs.
const (
	ExplicitVRLittleEndian = "1.2.840.10008.1.2.1"
	SecondaryCaptureClass  = "1.2.840.10008.5.1.4.1.1.7"
)

// ExportOptions describes the exported instance.
type ExportOptions struct {
	// Key seeds the deterministic Study/Series/SOP UIDs. Frames of one
	// batch share a Key and differ by InstanceNumber.
	Key            string
	InstanceNumber int

	SeriesDescription string
	Comments          string // stored in ImageComments
	Date              time.Time

	// Tags overrides or adds attributes by name, see TagNames.
	Tags map[string]string
}

// Export writes c to path as an 8-bit MONOCHROME2 Secondary Capture image.
func Export(path string, c *field.Canvas, opts ExportOptions) error {
	ds, err := BuildDataset(c, opts)
	if err != nil {
		return err
	}
	if err := writeDatasetToFile(path, ds); err != nil {
		return fmt.Errorf("write dicom %s: %w", path, err)
	}
	return nil
}

// BuildDataset assembles the dataset written by Export.
func BuildDataset(c *field.Canvas, opts ExportOptions) (ds dicom.Dataset, err error) {
	if c == nil || c.Len() == 0 {
		return dicom.Dataset{}, fmt.Errorf("%w: empty canvas", field.ErrInvalidDimensions)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build dicom dataset: %v", r)
		}
	}()

	instance := opts.InstanceNumber
	if instance <= 0 {
		instance = 1
	}
	date := opts.Date
	if date.IsZero() {
		date = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	description := opts.SeriesDescription
	if description == "" {
		description = "Synthetic star field"
	}

	studyUID := util.GenerateDeterministicUID(opts.Key + "_study")
	seriesUID := util.GenerateDeterministicUID(opts.Key + "_series")
	sopInstanceUID := util.GenerateDeterministicUID(fmt.Sprintf("%s_instance_%d", opts.Key, instance))

	width, height := c.Width(), c.Height()
	nativeFrame := frame.NewNativeFrame[uint8](8, height, width, width*height, 1)
	copy(nativeFrame.RawData, c.Pix())

	pixelDataInfo := dicom.PixelDataInfo{
		Frames: []*frame.Frame{
			{
				Encapsulated: false,
				NativeData:   nativeFrame,
			},
		},
	}

	elements := []*dicom.Element{
		mustNewElement(tag.MediaStorageSOPClassUID, []string{SecondaryCaptureClass}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{sopInstanceUID}),
		mustNewElement(tag.TransferSyntaxUID, []string{ExplicitVRLittleEndian}),
		mustNewElement(tag.SOPClassUID, []string{SecondaryCaptureClass}),
		mustNewElement(tag.SOPInstanceUID, []string{sopInstanceUID}),
		mustNewElement(tag.StudyInstanceUID, []string{studyUID}),
		mustNewElement(tag.SeriesInstanceUID, []string{seriesUID}),
		mustNewElement(tag.StudyDate, []string{date.Format("20060102")}),
		mustNewElement(tag.StudyTime, []string{date.Format("150405")}),
		mustNewElement(tag.Modality, []string{"OT"}),
		mustNewElement(tag.ConversionType, []string{"SYN"}),
		mustNewElement(tag.PatientName, []string{"STARFORGE^SYNTHETIC"}),
		mustNewElement(tag.PatientID, []string{fmt.Sprintf("SF%08X", uint32(util.SeedFromString(opts.Key)))}),
		mustNewElement(tag.SeriesNumber, []string{"1"}),
		mustNewElement(tag.SeriesDescription, []string{description}),
		mustNewElement(tag.InstanceNumber, []string{fmt.Sprintf("%d", instance)}),
		mustNewElement(tag.ImageComments, []string{opts.Comments}),
		mustNewElement(tag.Rows, []int{height}),
		mustNewElement(tag.Columns, []int{width}),
		mustNewElement(tag.BitsAllocated, []int{8}),
		mustNewElement(tag.BitsStored, []int{8}),
		mustNewElement(tag.HighBit, []int{7}),
		mustNewElement(tag.PixelRepresentation, []int{0}),
		mustNewElement(tag.SamplesPerPixel, []int{1}),
		mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
		mustNewElement(tag.WindowCenter, []string{"128"}),
		mustNewElement(tag.WindowWidth, []string{"256"}),
		mustNewElement(tag.PixelData, pixelDataInfo),
	}

	elements, err = applyTags(elements, opts.Tags)
	if err != nil {
		return dicom.Dataset{}, err
	}

	return dicom.Dataset{Elements: elements}, nil
}

// writeDatasetToFile writes a DICOM dataset to a file
func writeDatasetToFile(filename string, ds dicom.Dataset, opts ...dicom.WriteOption) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return dicom.Write(f, ds, opts...)
}

// mustNewElement creates a new DICOM element, panicking on error.
func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

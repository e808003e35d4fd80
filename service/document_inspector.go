package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/Aashish23092/candidate-intake/dto"
	"github.com/Aashish23092/candidate-intake/utils"
	"github.com/ledongthuc/pdf"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
)

type DocumentInspector interface {
	Inspect(data []byte, mimeType string) *dto.DocumentInspection
}

// DefaultMaxImagePixels is the largest image, in pixels, that is fully
// decoded for a QR scan
const DefaultMaxImagePixels = 40_000_000

type documentInspector struct {
	conf      *model.Configuration
	maxPixels int64
}

// NewDocumentInspector returns an inspector that reads page counts from
// PDFs and dimensions and QR codes from images. Images above maxPixels
// only get their dimensions read; maxPixels <= 0 means DefaultMaxImagePixels.
func NewDocumentInspector(maxPixels int64) DocumentInspector {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxImagePixels
	}
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &documentInspector{conf: conf, maxPixels: maxPixels}
}

func (d *documentInspector) Inspect(data []byte, mimeType string) *dto.DocumentInspection {
	inspection := &dto.DocumentInspection{}

	switch {
	case strings.Contains(mimeType, "pdf"):
		d.inspectPDF(data, inspection)
	case strings.HasPrefix(mimeType, "image/"):
		d.inspectImage(data, inspection)
	}

	if len(inspection.Warnings) > 0 {
		utils.Logger.WithFields(logrus.Fields{
			"mime_type": mimeType,
			"warnings":  inspection.Warnings,
		}).Info("Document inspection reported warnings")
	}
	return inspection
}

func (d *documentInspector) inspectPDF(data []byte, inspection *dto.DocumentInspection) {
	if err := api.Validate(bytes.NewReader(data), d.conf); err != nil {
		inspection.Warnings = append(inspection.Warnings, fmt.Sprintf("PDF failed validation: %v", err))
	}

	pages, err := countPages(data)
	if err != nil {
		inspection.Warnings = append(inspection.Warnings, fmt.Sprintf("could not count PDF pages: %v", err))
		return
	}
	inspection.Pages = pages
}

// countPages recovers from the reader's panics on malformed input
func countPages(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}

func (d *documentInspector) inspectImage(data []byte, inspection *dto.DocumentInspection) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		inspection.Warnings = append(inspection.Warnings, fmt.Sprintf("could not read image header: %v", err))
		return
	}
	inspection.Width = cfg.Width
	inspection.Height = cfg.Height

	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > d.maxPixels {
		inspection.Warnings = append(inspection.Warnings,
			fmt.Sprintf("image of %dx%d exceeds %d pixels, QR scan skipped", cfg.Width, cfg.Height, d.maxPixels))
		return
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		inspection.Warnings = append(inspection.Warnings, fmt.Sprintf("could not decode image: %v", err))
		return
	}
	inspection.QRCode = decodeQRCode(img)
}

// decodeQRCode returns the QR payload of img, or "" when there is none
func decodeQRCode(img image.Image) string {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return ""
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return ""
	}
	return result.GetText()
}

package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/Veraticus/agricarbon/internal/common"
	"github.com/Veraticus/agricarbon/internal/service"
)

// MaxImageSize is the largest upload the service accepts.
const MaxImageSize = 10 << 20

// allowedImageTypes are the sniffed content types the service accepts.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type imageFile struct {
	contentType string
	data        []byte
}

// readImage loads and validates the upload before anything is sent.
func readImage(r io.Reader) (imageFile, error) {
	if r == nil {
		return imageFile{}, common.NewUserError("No file provided for analysis.", common.ErrNoImage)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return imageFile{}, fmt.Errorf("failed to read image: %w", err)
	}

	switch {
	case len(data) == 0:
		return imageFile{}, common.NewUserError("Empty file uploaded", common.ErrInvalidImage)
	case len(data) > MaxImageSize:
		return imageFile{}, common.NewUserError("File too large. Max size: 10MB", common.ErrInvalidImage)
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return imageFile{}, common.NewUserError("Invalid file format. Allowed: JPEG, PNG, WebP",
			fmt.Errorf("%w: detected %s", common.ErrInvalidImage, contentType))
	}

	return imageFile{contentType: contentType, data: data}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildAnalyzeForm encodes the multipart body for POST /analyze.
func buildAnalyzeForm(req service.AnalyzeRequest, image imageFile) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := filepath.Base(req.Filename)
	if filename == "." || filename == string(filepath.Separator) || filename == "" {
		filename = "upload"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	header.Set("Content-Type", image.contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image.data); err != nil {
		return nil, "", err
	}

	if city := strings.TrimSpace(req.City); city != "" {
		if err := w.WriteField("city", city); err != nil {
			return nil, "", err
		}
	}
	if state := strings.TrimSpace(req.State); state != "" {
		if err := w.WriteField("state", state); err != nil {
			return nil, "", err
		}
	}
	if err := w.WriteField("include_report", "true"); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

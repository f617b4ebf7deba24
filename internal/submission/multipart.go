package submission

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode writes sub to w as multipart/form-data and returns the content type
// to send with it.
func Encode(w io.Writer, sub Submission) (string, error) {
	mw := multipart.NewWriter(w)

	for _, f := range Fields(sub) {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return "", fmt.Errorf("failed to write field %s: %w", f.Name, err)
		}
	}

	for i, a := range sub.Common().Attachments {
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("attachment-%d", i+1)
		}
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			FieldAttachments, quoteEscaper.Replace(name)))
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return "", fmt.Errorf("failed to create attachment part: %w", err)
		}
		if _, err := part.Write(a.Data); err != nil {
			return "", fmt.Errorf("failed to write attachment %s: %w", name, err)
		}
	}

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return mw.FormDataContentType(), nil
}

// EncodeToBuffer encodes sub into a fresh buffer.
func EncodeToBuffer(sub Submission) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	contentType, err := Encode(&buf, sub)
	if err != nil {
		return nil, "", err
	}
	return &buf, contentType, nil
}

package host

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"
	"github.com/microcosm-cc/bluemonday"
)

// Attachment holds metadata about a message attachment.
type Attachment struct {
	Filename string
	Size     int64
	MIMEType string
}

// ParsedBody holds the parts of an RFC 5322 message the taskpane uses.
type ParsedBody struct {
	MessageID   string
	Subject     string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

// Text returns the plain-text body, falling back to stripped HTML.
func (p *ParsedBody) Text() string {
	if p.TextBody != "" {
		return p.TextBody
	}
	return StripHTML(p.HTMLBody)
}

// ParseMessage parses a raw RFC 5322 message with go-message. Input that
// is not a MIME message is returned as a plain-text body.
func ParseMessage(raw []byte) *ParsedBody {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return &ParsedBody{TextBody: string(raw)}
	}
	defer mr.Close()

	parsed := &ParsedBody{}
	parsed.MessageID, _ = mr.Header.MessageID()
	parsed.Subject, _ = mr.Header.Subject()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}

			switch {
			case strings.HasPrefix(contentType, "text/plain") && parsed.TextBody == "":
				parsed.TextBody = string(body)
			case strings.HasPrefix(contentType, "text/html") && parsed.HTMLBody == "":
				parsed.HTMLBody = string(body)
			}

		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			contentType, _, _ := h.ContentType()

			n, readErr := io.Copy(io.Discard, part.Body)
			if readErr != nil {
				continue
			}

			parsed.Attachments = append(parsed.Attachments, Attachment{
				Filename: filename,
				Size:     n,
				MIMEType: contentType,
			})
		}
	}

	return parsed
}

// ReplaceBody rebuilds raw with the same top-level headers and text as
// its only, plain-text body. Attachments and alternative parts are
// dropped, matching a full replace of the message body.
func ReplaceBody(raw []byte, text string) ([]byte, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing message headers: %w", err)
	}
	defer mr.Close()

	h := mr.Header
	h.Del("Content-Transfer-Encoding")
	h.Del("Content-Disposition")
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}
	if _, err := io.WriteString(w, text); err != nil {
		return nil, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing message body: %w", err)
	}

	return buf.Bytes(), nil
}

// stripPolicy removes every tag and keeps only text.
var stripPolicy = bluemonday.StrictPolicy()

// StripHTML renders an HTML body as plain text: block ends become line
// breaks, tags are dropped and entities decoded.
func StripHTML(body string) string {
	if body == "" {
		return ""
	}

	result := body
	for _, tag := range []string{
		"<br>", "<br/>", "<br />", "</p>", "</div>", "</li>",
	} {
		result = strings.ReplaceAll(result, tag, "\n")
	}

	result = html.UnescapeString(stripPolicy.Sanitize(result))
	result = strings.ReplaceAll(result, "\u00a0", " ")

	for strings.Contains(result, "\n\n\n") {
		result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(result)
}

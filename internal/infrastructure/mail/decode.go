package mail

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/lexhaven/clientdesk/internal/core/ports"
	"github.com/lexhaven/clientdesk/internal/pkg/htmlutil"
)

// decodeMessage flattens a (possibly multipart) Gmail message into the
// transport-neutral MailMessage. text/plain parts concatenate into the plain
// body and text/html parts into the HTML body; each field falls back to a
// conversion of the other when its own parts are absent.
func decodeMessage(m *gmail.Message) ports.MailMessage {
	msg := ports.MailMessage{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		Snippet:  m.Snippet,
		LabelIDs: m.LabelIds,
	}
	if m.InternalDate > 0 {
		msg.InternalDate = time.UnixMilli(m.InternalDate).UTC()
	}
	if m.Payload == nil {
		return msg
	}

	for _, h := range m.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "from":
			msg.From = h.Value
		case "to":
			msg.To = h.Value
		case "subject":
			msg.Subject = h.Value
		}
	}

	var plain, html strings.Builder
	collectBodies(m.Payload, &plain, &html)

	msg.Body = plain.String()
	msg.HTMLBody = html.String()
	if msg.Body == "" && msg.HTMLBody != "" {
		msg.Body = htmlutil.StripTags(msg.HTMLBody)
	}
	if msg.HTMLBody == "" && msg.Body != "" {
		msg.HTMLBody = msg.Body
	}
	return msg
}

// collectBodies walks the part tree depth-first, appending decoded text/plain
// and text/html payloads to their respective buffers.
func collectBodies(part *gmail.MessagePart, plain, html *strings.Builder) {
	if part == nil {
		return
	}

	if part.Body != nil && part.Body.Data != "" {
		switch {
		case strings.HasPrefix(part.MimeType, "text/plain"):
			plain.WriteString(decodeBase64URL(part.Body.Data))
		case strings.HasPrefix(part.MimeType, "text/html"):
			html.WriteString(decodeBase64URL(part.Body.Data))
		}
	}

	for _, child := range part.Parts {
		collectBodies(child, plain, html)
	}
}

// decodeBase64URL tolerates both padded and unpadded base64url payloads.
func decodeBase64URL(data string) string {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	return ""
}

// buildRawMessage assembles a base64url-encoded multipart/alternative RFC 2822
// message the way the Gmail send endpoint expects.
func buildRawMessage(to, subject, htmlBody, textBody string) (string, error) {
	if to == "" {
		return "", fmt.Errorf("recipient address is empty")
	}

	const boundary = "clientdesk-alt"
	var b strings.Builder
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n")
	b.WriteString("\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(textBody + "\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody + "\r\n")

	b.WriteString("--" + boundary + "--\r\n")

	return base64.URLEncoding.EncodeToString([]byte(b.String())), nil
}

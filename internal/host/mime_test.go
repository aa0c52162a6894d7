package host

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multipartMessage = "From: Ann <ann@example.com>\r\n" +
	"To: bob@example.com\r\n" +
	"Subject: Quarterly review\r\n" +
	"Message-ID: <abc@example.com>\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=XYZ\r\n" +
	"\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Hi Bob,\r\nThe review moved to Thursday.\r\n" +
	"--XYZ\r\n" +
	"Content-Type: application/pdf\r\n" +
	"Content-Disposition: attachment; filename=\"slides.pdf\"\r\n" +
	"\r\n" +
	"PDFDATA\r\n" +
	"--XYZ--\r\n"

func TestParseMessage_Multipart(t *testing.T) {
	p := ParseMessage([]byte(multipartMessage))

	assert.Equal(t, "abc@example.com", p.MessageID)
	assert.Equal(t, "Quarterly review", p.Subject)
	assert.Contains(t, p.Text(), "The review moved to Thursday.")
	require.Len(t, p.Attachments, 1)
	assert.Equal(t, "slides.pdf", p.Attachments[0].Filename)
}

func TestParseMessage_HTMLOnly(t *testing.T) {
	raw := "Subject: x\r\nContent-Type: text/html\r\n\r\n<p>Hello &amp; welcome</p><br>Bye"
	p := ParseMessage([]byte(raw))

	assert.Empty(t, p.TextBody)
	assert.Equal(t, "Hello & welcome\n\nBye", p.Text())
}

func TestStripHTML_DropsStyleAndScript(t *testing.T) {
	in := "<style>p { color: red }</style><script>alert(1)</script><div>Hi&nbsp;there</div>"
	assert.Equal(t, "Hi there", StripHTML(in))
	assert.Empty(t, StripHTML(""))
}

func TestReplaceBody_KeepsHeaders(t *testing.T) {
	out, err := ReplaceBody([]byte(multipartMessage), "New body text")
	require.NoError(t, err)

	p := ParseMessage(out)
	assert.Equal(t, "Quarterly review", p.Subject)
	assert.Equal(t, "abc@example.com", p.MessageID)
	assert.Equal(t, "New body text", strings.TrimSpace(p.Text()))
	assert.Empty(t, p.Attachments)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 500))
	assert.Equal(t, "abc"+TruncationMarker, Preview("abcdef", 3))
	assert.Equal(t, "héllo", Preview("héllo", 5))
	assert.Equal(t, strings.Repeat("x", 500)+TruncationMarker, Preview(strings.Repeat("x", 501), 500))
	assert.Equal(t, "anything", Preview("anything", 0))
}

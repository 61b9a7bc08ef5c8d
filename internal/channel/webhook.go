package channel

import "encoding/json"

// MessageKind discriminates inbound webhook messages.
type MessageKind string

const (
	KindText        MessageKind = "text"
	KindAttachment  MessageKind = "attachment"
	KindUnsupported MessageKind = "unsupported"
)

// InboundMessage is the normalized view of one webhook message event.
type InboundMessage struct {
	SenderID string
	Kind     MessageKind
	Body     string // text messages only
	MediaID  string // attachments only
	MimeType string // attachments only
}

// Meta webhook envelope. Only the fields we read are declared.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []webhookMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookMessage struct {
	From     string    `json:"from"`
	Type     string    `json:"type"`
	Text     *textBody `json:"text"`
	Image    *mediaRef `json:"image"`
	Document *mediaRef `json:"document"`
}

type textBody struct {
	Body string `json:"body"`
}

type mediaRef struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
}

// ParseInbound decodes a webhook POST body into the first message it carries.
// ok is false for malformed payloads and for deliveries with no message (status
// callbacks etc.); those must be acknowledged, not errored, so the channel does
// not retry.
func ParseInbound(body []byte) (InboundMessage, bool) {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return InboundMessage{}, false
	}
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return InboundMessage{}, false
	}
	msgs := p.Entry[0].Changes[0].Value.Messages
	if len(msgs) == 0 {
		return InboundMessage{}, false
	}
	m := msgs[0]
	if m.From == "" {
		return InboundMessage{}, false
	}

	out := InboundMessage{SenderID: m.From}
	switch m.Type {
	case "text":
		out.Kind = KindText
		if m.Text != nil {
			out.Body = m.Text.Body
		}
	case "image":
		out.Kind = KindAttachment
		if m.Image != nil {
			out.MediaID = m.Image.ID
			out.MimeType = m.Image.MimeType
		}
	case "document":
		out.Kind = KindAttachment
		if m.Document != nil {
			out.MediaID = m.Document.ID
			out.MimeType = m.Document.MimeType
		}
	default:
		out.Kind = KindUnsupported
	}
	return out, true
}

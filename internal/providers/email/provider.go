package email

import "context"

// Attachment is an inline file on an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// SendResult reports delivery without panicking on transport failure;
// callers decide whether a failed send is fatal.
type SendResult struct {
	Success   bool
	MessageID string
	Err       error
}

type Provider interface {
	Send(ctx context.Context, msg Message) SendResult
}

// NoOpProvider accepts everything. Used in tests and local dev without
// an SMTP relay.
type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, msg Message) SendResult {
	return SendResult{Success: true, MessageID: "noop"}
}

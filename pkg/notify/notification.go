package notify

// Notification is an outbound message to a single recipient.
type Notification struct {
	Recipient string
	Subject   string
	BodyHTML  string
	Tag       string
}

// Validate checks the notification has everything a deliverer needs.
func (n Notification) Validate() error {
	if n.Recipient == "" {
		return ErrMissingRecipient
	}
	if n.Subject == "" {
		return ErrMissingSubject
	}
	return nil
}

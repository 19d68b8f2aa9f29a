package model

import "telegram-notify-relay/internal/domain"

// Recipient is a domain entity mapping an issued access token to a Telegram
// chat destination. Tokens are opaque to callers; the chat id and username
// come from the inbound registration message.
//
// JSON field names match the documents kept in the remote store, so the same
// struct round-trips through persistence unchanged.
type Recipient struct {
	Token    string `json:"token"`
	ChatID   int64  `json:"chatId"`
	Username string `json:"username"`
}

func NewRecipient(token string, chatID int64, username string) (Recipient, error) {
	if token == "" {
		return Recipient{}, domain.ErrInvalidArgument
	}
	if chatID == 0 {
		return Recipient{}, domain.ErrInvalidArgument
	}
	if username == "" {
		return Recipient{}, domain.ErrInvalidArgument
	}
	return Recipient{Token: token, ChatID: chatID, Username: username}, nil
}

func (r Recipient) IsZero() bool { return r.Token == "" }

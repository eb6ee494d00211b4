package domain

import "errors"

var ErrMailboxNotConfigured = errors.New("mailbox integration is not configured")
var ErrMailboxNotAuthenticated = errors.New("mailbox is not connected")
var ErrAuthExchangeFailed = errors.New("authorization code exchange failed")

var ErrMissingFields = errors.New("subject and content are required")
var ErrNoRecipients = errors.New("no clients with an email address to send to")

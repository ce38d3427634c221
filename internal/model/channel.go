package model

import (
	"fmt"
	"strconv"
	"strings"
)

// RequiredChannel is a channel a user must join before passing the gate.
// Ident is either a public "@handle" or a decimal chat id; the row key is the
// identity, so re-adding the same channel is a no-op.
type RequiredChannel struct {
	Ident string `gorm:"primaryKey"`
}

// ChannelRef is the parsed form of a channel identity: exactly one of Handle
// (without the leading @) or ChatID is set. Parsing happens once at the
// boundary; everything downstream carries the typed value.
type ChannelRef struct {
	Handle string
	ChatID int64
}

// ParseChannelRef classifies a raw identity as a handle or a numeric chat id.
func ParseChannelRef(raw string) (ChannelRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ChannelRef{}, fmt.Errorf("empty channel identity")
	}
	if strings.HasPrefix(raw, "@") {
		handle := strings.TrimPrefix(raw, "@")
		if handle == "" {
			return ChannelRef{}, fmt.Errorf("empty channel handle")
		}
		return ChannelRef{Handle: handle}, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return ChannelRef{}, fmt.Errorf("channel identity %q is neither @handle nor numeric id", raw)
	}
	return ChannelRef{ChatID: id}, nil
}

// IsHandle reports whether the reference is a public @handle.
func (r ChannelRef) IsHandle() bool {
	return r.Handle != ""
}

// Ident returns the storage form: "@handle" or the decimal chat id.
func (r ChannelRef) Ident() string {
	if r.IsHandle() {
		return "@" + r.Handle
	}
	return strconv.FormatInt(r.ChatID, 10)
}

// Label is the user-facing name: the handle when known, otherwise a
// generic placeholder since numeric-id channels have no public name.
func (r ChannelRef) Label() string {
	if r.IsHandle() {
		return "@" + r.Handle
	}
	return fmt.Sprintf("Channel %d", r.ChatID)
}

// URL returns a public t.me link for handles and "" for numeric ids.
func (r ChannelRef) URL() string {
	if r.IsHandle() {
		return "https://t.me/" + r.Handle
	}
	return ""
}

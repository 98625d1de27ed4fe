package codec

import (
	"errors"
	"strings"

	"task-viewer/internal/domain"
)

// Storage tokens for task statuses.
const (
	TokenPending    = "pendente"
	TokenInProgress = "em_andamento"
	TokenCompleted  = "concluida"
)

// ErrUnknownStatus is returned by ParseStatus for input that names no status.
var ErrUnknownStatus = errors.New("unknown task status")

var labelToToken = map[domain.TaskStatus]string{
	domain.StatusPending:    TokenPending,
	domain.StatusInProgress: TokenInProgress,
	domain.StatusCompleted:  TokenCompleted,
}

var tokenToLabel = map[string]domain.TaskStatus{
	TokenPending:    domain.StatusPending,
	TokenInProgress: domain.StatusInProgress,
	TokenCompleted:  domain.StatusCompleted,
}

// StatusToStorage maps a status label to its storage token. Unknown labels
// map to the pending token.
func StatusToStorage(status domain.TaskStatus) string {
	if token, ok := labelToToken[status]; ok {
		return token
	}
	return TokenPending
}

// StatusFromStorage maps a storage token to its label. Unknown tokens read
// as pending.
func StatusFromStorage(token string) domain.TaskStatus {
	if label, ok := tokenToLabel[token]; ok {
		return label
	}
	return domain.StatusPending
}

// IsKnownToken reports whether token is one of the storage tokens.
func IsKnownToken(token string) bool {
	_, ok := tokenToLabel[token]
	return ok
}

// ParseStatus accepts a status label or a storage token from a caller.
// Unlike StatusFromStorage it never guesses.
func ParseStatus(s string) (domain.TaskStatus, error) {
	s = strings.TrimSpace(s)
	if label := domain.TaskStatus(s); label.IsValid() {
		return label, nil
	}
	if label, ok := tokenToLabel[s]; ok {
		return label, nil
	}
	return "", ErrUnknownStatus
}

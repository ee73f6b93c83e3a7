package services

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

var channelNameSpaces = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// NormalizeChannelName turns "Plan Budget" into "plan-budget".
func NormalizeChannelName(name string) string {
	return strings.ToLower(channelNameSpaces.ReplaceAllString(name, "-"))
}

const joinCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const JoinCodeLength = 6

// NewJoinCode draws each character independently. Codes are not checked for collisions.
func NewJoinCode() string {
	var sb strings.Builder
	sb.Grow(JoinCodeLength)
	for range JoinCodeLength {
		sb.WriteByte(joinCodeAlphabet[rand.IntN(len(joinCodeAlphabet))])
	}
	return sb.String()
}

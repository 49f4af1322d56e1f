// Package chat connects to Twitch chat over IRC and answers word search
// commands posted by channel moderators.
package chat

import (
	"errors"
	"strings"
)

// ErrMalformedLine is returned for lines that carry no IRC command.
var ErrMalformedLine = errors.New("malformed irc line")

// Message is one parsed IRC line.
type Message struct {
	Tags    map[string]string
	Prefix  string
	Command string
	Params  []string
}

// ParseLine parses an IRC line with optional IRCv3 tags:
//
//	[@tags] [:prefix] COMMAND [params...] [:trailing]
//
// A trailing CR/LF is ignored.
func ParseLine(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")
	var m Message

	if strings.HasPrefix(line, "@") {
		raw, rest, _ := strings.Cut(line[1:], " ")
		m.Tags = parseTags(raw)
		line = rest
	}
	line = strings.TrimLeft(line, " ")

	if strings.HasPrefix(line, ":") {
		m.Prefix, line, _ = strings.Cut(line[1:], " ")
		line = strings.TrimLeft(line, " ")
	}

	m.Command, line, _ = strings.Cut(line, " ")
	if m.Command == "" {
		return Message{}, ErrMalformedLine
	}
	m.Command = strings.ToUpper(m.Command)

	for line != "" {
		line = strings.TrimLeft(line, " ")
		if line == "" {
			break
		}
		if line[0] == ':' {
			m.Params = append(m.Params, line[1:])
			break
		}
		var p string
		p, line, _ = strings.Cut(line, " ")
		m.Params = append(m.Params, p)
	}

	return m, nil
}

// Nick returns the nickname part of the prefix (before '!').
func (m Message) Nick() string {
	nick, _, _ := strings.Cut(m.Prefix, "!")
	return nick
}

// Trailing returns the last parameter, or "" when there is none.
func (m Message) Trailing() string {
	if len(m.Params) == 0 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}

// Privmsg is a chat message posted to a channel.
type Privmsg struct {
	Channel     string // without the leading '#'
	Sender      string // login name
	DisplayName string
	Text        string
	Action      bool // sent with /me
	Badges      []string
}

// Privmsg converts a PRIVMSG line into a Privmsg.
func (m Message) Privmsg() (Privmsg, bool) {
	if m.Command != "PRIVMSG" || len(m.Params) < 2 {
		return Privmsg{}, false
	}

	p := Privmsg{
		Channel:     strings.TrimPrefix(m.Params[0], "#"),
		Sender:      strings.ToLower(m.Nick()),
		DisplayName: m.Tags["display-name"],
		Text:        m.Params[1],
		Badges:      parseBadges(m.Tags["badges"]),
	}
	if p.DisplayName == "" {
		p.DisplayName = p.Sender
	}
	if body, ok := strings.CutPrefix(p.Text, "\x01ACTION "); ok {
		p.Text = strings.TrimSuffix(body, "\x01")
		p.Action = true
	}
	return p, true
}

// HasBadge reports whether the sender carries any of the named badges.
func (p Privmsg) HasBadge(names ...string) bool {
	for _, b := range p.Badges {
		for _, n := range names {
			if b == n {
				return true
			}
		}
	}
	return false
}

// parseBadges turns "moderator/1,subscriber/12" into badge names.
func parseBadges(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	badges := make([]string, 0, len(parts))
	for _, part := range parts {
		name, _, _ := strings.Cut(part, "/")
		if name != "" {
			badges = append(badges, name)
		}
	}
	return badges
}

func parseTags(raw string) map[string]string {
	tags := make(map[string]string)
	for _, kv := range strings.Split(raw, ";") {
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		tags[k] = unescapeTag(v)
	}
	return tags
}

// unescapeTag reverses IRCv3 tag value escaping. An unknown escape yields the
// escaped character and a lone trailing backslash is dropped.
func unescapeTag(v string) string {
	if !strings.Contains(v, `\`) {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(v) {
			break
		}
		switch v[i] {
		case ':':
			b.WriteByte(';')
		case 's':
			b.WriteByte(' ')
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte(v[i])
		}
	}
	return b.String()
}

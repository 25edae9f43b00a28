package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Service renders admin-authored markdown into sanitized HTML suitable for
// chat delivery, and strips markup from user-authored text before it is
// forwarded to administrators.
type Service interface {
	ToHTML(markdown string) (string, error)
	Sanitize(htmlContent string) string
	StripTags(text string) string
}

type serviceImpl struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

func NewService() Service {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	// Telegram HTML parse mode only understands a small tag set.
	policy := bluemonday.NewPolicy()
	policy.AllowElements("b", "strong", "i", "em", "u", "s", "del", "code", "pre")
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowStandardURLs()

	return &serviceImpl{
		md:     md,
		policy: policy,
		strict: bluemonday.StrictPolicy(),
	}
}

func (s *serviceImpl) ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return strings.TrimSpace(s.policy.Sanitize(buf.String())), nil
}

func (s *serviceImpl) Sanitize(htmlContent string) string {
	return s.policy.Sanitize(htmlContent)
}

// StripTags removes all markup, leaving plain text.
func (s *serviceImpl) StripTags(text string) string {
	return strings.TrimSpace(s.strict.Sanitize(text))
}

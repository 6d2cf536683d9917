// Package content normalizes free-text and bulleted resume content.
package content

import "strings"

// BulletMarker is the prefix used for bullet lines in prose and LLM output
const BulletMarker = "•"

// Content is either a list of bullets or a free-text paragraph.
type Content interface {
	// Bullets returns the content as discrete achievement lines
	Bullets() []string
	isContent()
}

// Bulleted is content that already consists of discrete lines
type Bulleted []string

// Prose is free text that has to be split into bullets
type Prose string

// Bullets returns the non-empty, trimmed lines
func (b Bulleted) Bullets() []string {
	out := make([]string, 0, len(b))
	for _, line := range b {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Bullets derives achievement lines from the paragraph
func (p Prose) Bullets() []string {
	return DeriveBullets(string(p))
}

func (Bulleted) isContent() {}
func (Prose) isContent()    {}

// Resolve picks the authoritative content of an entity.
// Explicit bullets win when any are non-empty, otherwise the description is used.
func Resolve(description string, bullets []string) Content {
	if b := Bulleted(bullets).Bullets(); len(b) > 0 {
		return Bulleted(b)
	}
	return Prose(description)
}

// Normalize returns the bullets an entity should carry
func Normalize(description string, bullets []string) []string {
	return Resolve(description, bullets).Bullets()
}

// DeriveBullets converts a description into bullet lines.
// Lines starting with the bullet marker are taken with the marker stripped;
// when no marker is present, each non-empty line becomes a bullet.
// DeriveBullets(FormatBullets(b)) returns b for trimmed, non-empty b.
func DeriveBullets(description string) []string {
	description = strings.TrimSpace(description)
	if description == "" {
		return []string{}
	}

	lines := strings.Split(description, "\n")
	out := make([]string, 0, len(lines))

	if strings.Contains(description, BulletMarker) {
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, BulletMarker) {
				continue
			}
			if text := strings.TrimSpace(strings.TrimPrefix(line, BulletMarker)); text != "" {
				out = append(out, text)
			}
		}
		return out
	}

	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// FormatBullets joins bullets into newline separated "• " lines
func FormatBullets(bullets []string) string {
	lines := make([]string, 0, len(bullets))
	for _, b := range bullets {
		if b = strings.TrimSpace(b); b != "" {
			lines = append(lines, BulletMarker+" "+b)
		}
	}
	return strings.Join(lines, "\n")
}

// BulletLines returns the lines of s that start with the bullet marker,
// keeping the marker. It is used to check LLM output.
func BulletLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); strings.HasPrefix(line, BulletMarker) {
			out = append(out, line)
		}
	}
	return out
}

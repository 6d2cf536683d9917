package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/types"
	"go.uber.org/zap"
)

// BulletCount is the number of bullet lines a usable draft must contain
const BulletCount = 3

// Draft is the outcome of a bullet request
type Draft struct {
	// Content is the "• " joined text shown to the user
	Content string
	// Bullets are the lines of Content without markers
	Bullets []string
	// Fallback is set when Content is the canned text
	Fallback bool
	// Reason explains why the fallback was used
	Reason error
}

// ExperienceData builds the prompt fields for an experience entry
func ExperienceData(e types.Experience) types.DescriptionData {
	return types.DescriptionData{
		Position: e.Position,
		Company:  e.Company,
		Details:  e.Description,
	}
}

// ProjectData builds the prompt fields for a project
func ProjectData(p types.Project) types.DescriptionData {
	return types.DescriptionData{
		Title:     p.Title,
		TechStack: p.TechStack,
		Details:   p.Description,
	}
}

// DraftBullets asks the proxy for bullet points. Proxy failures and short
// answers yield the canned text for the section. The error is non-nil only
// for an unknown section or a done context.
func (c *Client) DraftBullets(ctx context.Context, section types.AssistSection, data types.DescriptionData) (Draft, error) {
	fallback, ok := FallbackBullets(section, data)
	if !ok {
		return Draft{}, fmt.Errorf("no bullet prompt for section %q", section)
	}

	raw, err := c.GenerateDescription(ctx, section, data)
	if ctx.Err() != nil {
		return Draft{}, ctx.Err()
	}

	if err == nil {
		lines := content.BulletLines(raw)
		if len(lines) >= BulletCount {
			text := strings.Join(lines[:BulletCount], "\n")
			return Draft{Content: text, Bullets: content.DeriveBullets(text)}, nil
		}
		err = fmt.Errorf("expected %d bullet lines, got %d", BulletCount, len(lines))
	}

	c.logger.Warn("using fallback bullets", zap.String("section", string(section)), zap.Error(err))
	return Draft{
		Content:  fallback,
		Bullets:  content.DeriveBullets(fallback),
		Fallback: true,
		Reason:   err,
	}, nil
}

// FallbackBullets returns the canned bullet text for a section
func FallbackBullets(section types.AssistSection, data types.DescriptionData) (string, bool) {
	switch section {
	case types.AssistExperience:
		return strings.Join([]string{
			fmt.Sprintf("• Spearheaded key initiatives as %s at %s, driving operational excellence",
				orDefault(data.Position, "a professional"), orDefault(data.Company, "a company")),
			fmt.Sprintf("• Collaborated with cross-functional teams to deliver %s through innovative solutions",
				orDefault(data.Achievements, "measurable business outcomes")),
			fmt.Sprintf("• Optimized processes resulting in %s",
				orDefault(data.Impact, "significant efficiency improvements and cost savings")),
		}, "\n"), true
	case types.AssistProject:
		return strings.Join([]string{
			fmt.Sprintf("• Engineered \"%s\" using %s to solve %s",
				orDefault(data.Title, "the project"), orDefault(strings.Join(data.TechStack, ", "), "modern technologies"),
				orDefault(data.Purpose, "key challenges")),
			fmt.Sprintf("• Implemented robust features including %s to enhance functionality",
				orDefault(data.Features, "user authentication, data analytics")),
			fmt.Sprintf("• Delivered %s with %s",
				orDefault(data.Impact, "tangible results"),
				orDefault(data.Metrics, "30% performance improvement and positive user feedback")),
		}, "\n"), true
	}
	return "", false
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

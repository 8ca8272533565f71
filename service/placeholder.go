package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"casedraft-backend/llm"
	"casedraft-backend/models"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// unfilled marker for placeholders with no value
const missingValueMarker = "[미기재]"

// FillStatic substitutes placeholder tokens in the template lines from
// the values map. Lines are matched by placeholder key first, then any
// remaining {{token}} occurrences are looked up literally. Missing
// values render as the unfilled marker. The input slice is not mutated.
func FillStatic(lines []models.Line, values map[string]interface{}) []models.Line {
	filled := make([]models.Line, len(lines))
	copy(filled, lines)

	for i := range filled {
		if filled[i].AIGenerated {
			continue
		}
		lineKey := filled[i].PlaceholderKey
		filled[i].Text = placeholderPattern.ReplaceAllStringFunc(filled[i].Text, func(token string) string {
			if lineKey != "" {
				if v, ok := values[lineKey]; ok {
					return stringify(v)
				}
			}
			key := strings.TrimSpace(placeholderPattern.FindStringSubmatch(token)[1])
			if v, ok := values[key]; ok {
				return stringify(v)
			}
			return missingValueMarker
		})
	}
	return filled
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return missingValueMarker
	default:
		return fmt.Sprintf("%v", t)
	}
}

// sectionGuides maps generated placeholder keys and section names to
// writing instructions included in the generation prompt
var sectionGuides = map[string]string{
	"claim_grounds": "청구원인을 작성하세요. 혼인 경위, 이혼 사유가 된 사실관계, 귀책사유를 증거에 근거하여 시간 순서대로 서술하고, 민법 제840조의 해당 호를 명시하세요.",
	"청구원인":          "청구원인을 작성하세요. 혼인 경위, 이혼 사유가 된 사실관계, 귀책사유를 증거에 근거하여 시간 순서대로 서술하세요.",
}

// PlaceholderFiller generates content for AI-generated template
// placeholders using the completion client
type PlaceholderFiller struct {
	completion llm.CompletionClient
}

func NewPlaceholderFiller(completion llm.CompletionClient) *PlaceholderFiller {
	return &PlaceholderFiller{completion: completion}
}

// FillGenerated produces text for every AI-generated placeholder line
// using the retrieved evidence as grounding context. Non-generated
// lines pass through untouched.
func (f *PlaceholderFiller) FillGenerated(ctx context.Context, lines []models.Line, evidence []models.RetrievedDocument) ([]models.Line, error) {
	filled := make([]models.Line, len(lines))
	copy(filled, lines)

	for i := range filled {
		if !filled[i].AIGenerated || !filled[i].IsPlaceholder {
			continue
		}
		guide := guideFor(filled[i])
		prompt := buildSectionPrompt(guide, evidence)
		text, err := f.completion.Complete(ctx, llm.CompletionRequest{
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: draftPersona},
				{Role: llm.RoleUser, Content: prompt},
			},
			Temperature: defaultTemperature,
			MaxTokens:   defaultMaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: placeholder %s: %v", ErrGenerationFailed, filled[i].PlaceholderKey, err)
		}
		filled[i].Text = strings.TrimSpace(text)
	}
	return filled, nil
}

// guideFor picks the writing instruction for a generated line, by
// placeholder key first, then by section, then a generic fallback.
func guideFor(line models.Line) string {
	if guide, ok := sectionGuides[line.PlaceholderKey]; ok {
		return guide
	}
	if guide, ok := sectionGuides[line.Section]; ok {
		return guide
	}
	return fmt.Sprintf("%s 항목의 내용을 작성하세요.", line.PlaceholderKey)
}

func buildSectionPrompt(guide string, evidence []models.RetrievedDocument) string {
	var b strings.Builder
	b.WriteString(guide)
	b.WriteString("\n\n")
	b.WriteString(formatEvidenceContext(evidence))
	b.WriteString("\n증거에 없는 사실을 만들어내지 마세요. 증거를 인용할 때는 [증거 N] 형식을 사용하세요.")
	return b.String()
}

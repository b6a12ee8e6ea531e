package sentiment

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[A-Za-z/!?][^<>]*>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// escapeStrayAngles turns every '<' that does not open a tag into an
// entity, so emoticons like "<3" reach the parser as text.
func escapeStrayAngles(input string) string {
	if !strings.Contains(input, "<") {
		return input
	}

	tags := tagPattern.FindAllStringIndex(input, -1)
	var sb strings.Builder
	next := 0
	for i := 0; i < len(input); i++ {
		for next < len(tags) && tags[next][1] <= i {
			next++
		}
		if input[i] == '<' && (next >= len(tags) || tags[next][0] != i) {
			sb.WriteString("&lt;")
			continue
		}
		sb.WriteByte(input[i])
	}
	return sb.String()
}

// ConvertMarkdownToText parses markdown and keeps only its text content,
// whitespace-normalized and without links. Inline HTML tags are dropped.
func ConvertMarkdownToText(input string) string {
	doc := blackfriday.New(blackfriday.WithNoExtensions()).
		Parse([]byte(escapeStrayAngles(RemoveLinks(input))))

	var sb strings.Builder
	doc.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch node.Type {
		case blackfriday.Text, blackfriday.Code, blackfriday.CodeBlock:
			if entering {
				sb.Write(node.Literal)
			}
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			if entering {
				sb.WriteByte(' ')
			}
		case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item, blackfriday.TableCell:
			if !entering {
				sb.WriteByte(' ')
			}
		}
		return blackfriday.GoToNext
	})

	return strings.Join(strings.Fields(html.UnescapeString(sb.String())), " ")
}

// VaderScorer scores text with the VADER lexicon. The polarity is the
// compound score in [-1, 1].
type VaderScorer struct {
	analyzer      *govader.SentimentIntensityAnalyzer
	stripMarkdown bool
}

func NewVaderScorer(stripMarkdown bool) *VaderScorer {
	return &VaderScorer{
		analyzer:      govader.NewSentimentIntensityAnalyzer(),
		stripMarkdown: stripMarkdown,
	}
}

func (v *VaderScorer) Polarity(_ context.Context, text string) (float64, error) {
	if v.stripMarkdown {
		text = ConvertMarkdownToText(text)
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	return v.analyzer.PolarityScores(text).Compound, nil
}

package digest

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Calibri"
	fontSize = 11
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reItalic  = regexp.MustCompile(`^_(.+)_$`)
)

// ToDocx renders composed digest Markdown to a Word document at path.
// Headings, bullets and bold spans are styled; an _italic_ line is greyed.
func ToDocx(markdown, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], headingSize(len(m[1])))
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}
		if m := reItalic.FindStringSubmatch(trimmed); m != nil {
			doc.AddParagraph("").AddText(m[1]).Font(fontName).Size(fontSize).Color("595959")
			continue
		}

		addRichText(doc.AddParagraph(""), trimmed)
	}

	return doc.SaveTo(path)
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 18
	case 2:
		return 15
	case 3:
		return 13
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, size uint64) {
	p.AddText(cleanInline(text)).Font(fontName).Size(size).Bold(true)
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanInline(part)).Font(fontName).Size(fontSize)
		}
		if i < len(matches) {
			p.AddText(cleanInline(matches[i][1])).Font(fontName).Size(fontSize).Bold(true)
		}
	}
}

func cleanInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}

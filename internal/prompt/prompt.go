package prompt

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/thienthu/internal/store"
)

// GlossaryTypes lists the term categories the model may assign, in prompt
// order. Anything else is stored as "other".
var GlossaryTypes = []string{
	"character",
	"location",
	"faction",
	"cultivation",
	"concept",
	"skill",
	"artifact",
	"title",
	"other",
}

// IsGlossaryType reports whether t is one of GlossaryTypes.
func IsGlossaryType(t string) bool {
	for _, known := range GlossaryTypes {
		if t == known {
			return true
		}
	}
	return false
}

const translateIntro = `You translate Chinese xianxia and cultivation web novels into Vietnamese.

Input: a JSON array of Chinese paragraphs, in reading order.
Output: one JSON object and nothing else:

{
  "title": "Vietnamese chapter title, empty if the text has none",
  "order": chapter number as an integer, 0 if unknown,
  "summary": "two or three Vietnamese sentences summarising the chapter",
  "translations": ["one Vietnamese paragraph per input paragraph"]
}

Rules:
1. "translations" has exactly as many elements as the input array, in the same order. Never merge or split paragraphs.
2. Translate faithfully but naturally, in the register of published Vietnamese xianxia.
3. Keep names of people, places and sects in Sino-Vietnamese reading.
4. Render cultivation terms the customary way (Luyện Khí, Trúc Cơ, Kim Đan, Nguyên Anh).
5. Use period forms of address (ta, ngươi, tiền bối, vãn bối) where the context calls for them.
6. Replace idioms with an equivalent Vietnamese expression rather than a literal rendering.
7. A paragraph that only holds a URL, a watermark or an advertisement becomes "" but keeps its position.`

const translateExample = `Example input:
["张三走进房间。他看到一个宝箱。", "宝箱里有一颗金丹。"]
Example output:
{"title": "", "order": 0, "summary": "Trương Tam tìm thấy một viên Kim Đan.", "translations": ["Trương Tam bước vào phòng. Hắn nhìn thấy một chiếc rương báu.", "Trong rương có một viên Kim Đan."]}

Return JSON only. No markdown, no explanation.`

// Translate returns the system prompt for chapter translation. Glossary
// entries are listed as mandatory renderings.
func Translate(glossary []store.GlossaryEntry) string {
	var sb strings.Builder
	sb.WriteString(translateIntro)

	if len(glossary) > 0 {
		sb.WriteString("\n\nMandatory glossary. Always use these renderings:\n")
		for _, g := range glossary {
			fmt.Fprintf(&sb, "%s → %s (%s)\n", g.Raw, g.Translated, g.Type)
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(translateExample)
	return sb.String()
}

// ExtractGlossary returns the system prompt for glossary extraction.
func ExtractGlossary() string {
	return `You analyse Chinese xianxia web novels.

Scan the chapter and list every proper noun and specialised term. Give each one exactly one type:

1. character: a named person (萧炎, 药老).
2. location: a place, city, mountain or secret realm (乌坦城, 魔兽山脉).
3. faction: a sect, clan, academy, guild or alliance (萧家, 云岚宗, 迦南学院).
4. cultivation: a realm or rank of cultivation (斗者, 斗师, 筑基期, 金丹期).
5. concept: a cultivation term that is not a rank (斗气, 灵根, 丹田, 神识).
6. skill: a technique, martial move or method (八极崩, 焰分噬浪尺).
7. artifact: a treasure, pill, herb or special item (纳戒, 冰灵寒泉).
8. title: a generic honorific or position not tied to one name (炼药师, 大长老).
9. other: an important term that fits none of the above (斗气大陆).

A personal name is always "character" even when it contains a title.
Skip common words and full sentences. List each term once.
Translate into Sino-Vietnamese in the xianxia register. Capitalise proper names (Tiêu Viêm, Vân Lam Tông) and leave generic terms lowercase (đấu khí, luyện dược sư).

Return only a JSON array of objects:
[{"raw": "Chinese term", "translated": "Vietnamese rendering", "type": "one of the nine types"}]`
}

// GlossaryInput wraps chapter text for the extraction request.
func GlossaryInput(text string) string {
	return "Chapter raw:\n---\n" + text + "\n---"
}

package entity

// Chapters lists every local chapter a member can belong to.
var Chapters = []string{
	"JCI ALIGARH SHINE",
	"JCI BAREILY JHUMKA CITY",
	"JCI BAREILY MAGNET CITY",
	"JCI BRAHMAVARTA",
	"JCI HATHRAS",
	"JCI HATHRAS GREATER",
	"JCI HATHRAS RAINBOW",
	"JCI HATHRAS VICTORY",
	"JCI HATHRAS SPARKLE",
	"JCI JHANSI CLASSIC",
	"JCI JHANSI FEMINA",
	"JCI JHANSI GOONJ",
	"JCI JHANSI UDAAN",
	"JCI KAIMGANJ GREATER",
	"JCI KANHA",
	"JCI KANPUR",
	"JCI KANPUR INDUSTRIAL",
	"JCI KANPUR LAVANYA",
	"JCI KASGANJ JAGRATI",
	"JCI MATHURA",
	"JCI MATHURA AANYA",
	"JCI MATHURA CITY",
	"JCI MATHURA ELITE (2024)",
	"JCI MATHURA GREATER",
	"JCI MATHURA KALINDI",
	"JCI MATHURA PANKHURI",
	"JCI MATHURA ROYAL",
	"JCI NOIDA NCR (2024)",
	"JCI RAE BAREILY",
	"JCI RANI LAXMIBAI",
	"JCI RATH",
	"JCI RUDRAPUR",
	"JCI RUDRAPUR QUEEN (2023)",
}

var chapterSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Chapters))
	for _, c := range Chapters {
		m[c] = struct{}{}
	}
	return m
}()

// IsChapter reports whether name is one of Chapters. Matching is exact.
func IsChapter(name string) bool {
	_, ok := chapterSet[name]
	return ok
}

package constants

const (
	CollectionName = "hadiths_collection"

	MetaSource    = "source"
	MetaChapter   = "chapter"
	MetaChapterNo = "chapter_no"
	MetaHadithNo  = "hadith_no"
)

// MetadataKeys - The only payload keys stored next to a hadith, in a stable order.
var MetadataKeys = []string{MetaSource, MetaChapter, MetaChapterNo, MetaHadithNo}

// Record - One row of the source table.
type Record struct {
	HadithID  string
	Text      string
	Source    string
	Chapter   string
	ChapterNo string
	HadithNo  string
}

// Metadata - Never nil and never missing a key; absent values are "".
func (r Record) Metadata() map[string]string {
	return map[string]string{
		MetaSource:    r.Source,
		MetaChapter:   r.Chapter,
		MetaChapterNo: r.ChapterNo,
		MetaHadithNo:  r.HadithNo,
	}
}

// Document - A record as handed to the vector store.
func (r Record) Document() Document {
	return Document{
		ID:       r.HadithID,
		Text:     r.Text,
		Metadata: r.Metadata(),
	}
}

type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Filter - Equality constraints ANDed together. Empty fields don't constrain anything.
type Filter struct {
	Source  string
	Chapter string
}

func (f Filter) IsEmpty() bool {
	return f.Source == "" && f.Chapter == ""
}

// Conditions - Only the non-empty constraints, keyed by metadata name.
func (f Filter) Conditions() map[string]string {
	conditions := make(map[string]string, 2)
	if f.Source != "" {
		conditions[MetaSource] = f.Source
	}
	if f.Chapter != "" {
		conditions[MetaChapter] = f.Chapter
	}
	return conditions
}

type SearchResult struct {
	HadithID string            `json:"hadith_id"`
	Text     string            `json:"text"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}

type Answer struct {
	Answer  string         `json:"answer"`
	Hadiths []SearchResult `json:"hadiths"`
}

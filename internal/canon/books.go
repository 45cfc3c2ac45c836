// Package canon provides the 66-book Protestant canon: numeric book ids,
// canonical names, and the testament partition used throughout the engine.
package canon

import "fmt"

// Testament identifies the division a book belongs to.
type Testament string

const (
	// OldTestament covers books 1-39.
	OldTestament Testament = "OT"
	// NewTestament covers books 40-66.
	NewTestament Testament = "NT"
)

// Book id boundaries.
const (
	FirstBook   = 1
	LastOTBook  = 39
	FirstNTBook = 40
	LastBook    = 66
)

// bookNames maps numeric book ids to canonical English names.
var bookNames = map[int]string{
	1: "Genesis", 2: "Exodus", 3: "Leviticus", 4: "Numbers", 5: "Deuteronomy",
	6: "Joshua", 7: "Judges", 8: "Ruth", 9: "1 Samuel", 10: "2 Samuel",
	11: "1 Kings", 12: "2 Kings", 13: "1 Chronicles", 14: "2 Chronicles",
	15: "Ezra", 16: "Nehemiah", 17: "Esther", 18: "Job", 19: "Psalms",
	20: "Proverbs", 21: "Ecclesiastes", 22: "Song of Solomon", 23: "Isaiah",
	24: "Jeremiah", 25: "Lamentations", 26: "Ezekiel", 27: "Daniel",
	28: "Hosea", 29: "Joel", 30: "Amos", 31: "Obadiah", 32: "Jonah",
	33: "Micah", 34: "Nahum", 35: "Habakkuk", 36: "Zephaniah", 37: "Haggai",
	38: "Zechariah", 39: "Malachi", 40: "Matthew", 41: "Mark", 42: "Luke",
	43: "John", 44: "Acts", 45: "Romans", 46: "1 Corinthians", 47: "2 Corinthians",
	48: "Galatians", 49: "Ephesians", 50: "Philippians", 51: "Colossians",
	52: "1 Thessalonians", 53: "2 Thessalonians", 54: "1 Timothy", 55: "2 Timothy",
	56: "Titus", 57: "Philemon", 58: "Hebrews", 59: "James", 60: "1 Peter",
	61: "2 Peter", 62: "1 John", 63: "2 John", 64: "3 John", 65: "Jude",
	66: "Revelation",
}

// numberByName is the reverse lookup, built once at init.
var numberByName = func() map[string]int {
	m := make(map[string]int, len(bookNames))
	for num, name := range bookNames {
		m[name] = num
	}
	return m
}()

// ValidBook reports whether book is a known book id.
func ValidBook(book int) bool {
	return book >= FirstBook && book <= LastBook
}

// BookName returns the canonical name for a book id.
// Unknown ids get a placeholder name rather than an error so that
// display paths never fail on anomalous data.
func BookName(book int) string {
	if name, ok := bookNames[book]; ok {
		return name
	}
	return fmt.Sprintf("Book %d", book)
}

// BookNumber returns the book id for a canonical name.
func BookNumber(name string) (int, bool) {
	num, ok := numberByName[name]
	return num, ok
}

// TestamentOf returns the testament a book belongs to.
func TestamentOf(book int) Testament {
	if book <= LastOTBook {
		return OldTestament
	}
	return NewTestament
}

// ParseTestament parses a testament code ("OT" or "NT").
func ParseTestament(s string) (Testament, bool) {
	switch s {
	case string(OldTestament):
		return OldTestament, true
	case string(NewTestament):
		return NewTestament, true
	default:
		return "", false
	}
}

// Contains reports whether the testament includes the given book id.
func (t Testament) Contains(book int) bool {
	return TestamentOf(book) == t
}

// Books returns the book ids in the testament, in canonical order.
func (t Testament) Books() []int {
	lo, hi := FirstBook, LastOTBook
	if t == NewTestament {
		lo, hi = FirstNTBook, LastBook
	}
	books := make([]int, 0, hi-lo+1)
	for b := lo; b <= hi; b++ {
		books = append(books, b)
	}
	return books
}

// Ref formats a (book, chapter, verse) reference like "John 1:1".
func Ref(book, chapter, verse int) string {
	return fmt.Sprintf("%s %d:%d", BookName(book), chapter, verse)
}

// ChapterRef formats a (book, chapter) reference like "John 1".
func ChapterRef(book, chapter int) string {
	return fmt.Sprintf("%s %d", BookName(book), chapter)
}

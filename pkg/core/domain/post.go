package domain

import (
	"net/url"
	"time"
	"unicode/utf8"
)

// Category classifies a post. Wire values are case-sensitive.
type Category string

const (
	CategoryDevelop Category = "Develop"
	CategoryRecap   Category = "Recap"
)

func (c Category) Valid() bool {
	return c == CategoryDevelop || c == CategoryRecap
}

// Field bounds, counted in characters (runes).
const (
	MaxTitleLen     = 255
	MaxSummaryLen   = 255
	MaxContentLen   = 20000
	MaxThumbnailLen = 2048
)

// DateLayout is the calendar date format used for summaries and visit logs.
const DateLayout = "2006-01-02"

// Post represents a blog entry
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Likes     int64     `json:"likes_count"`
}

// PostDraft carries the caller-supplied fields of a new post.
type PostDraft struct {
	Title     string
	Summary   string
	Content   string
	Category  Category
	Thumbnail string
}

// PostPatch is a partial update. A nil field is left unchanged.
type PostPatch struct {
	Title     *string
	Summary   *string
	Content   *string
	Category  *Category
	Thumbnail *string
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Summary == nil && p.Content == nil && p.Category == nil && p.Thumbnail == nil
}

// Validate checks every field bound of a draft.
func (d PostDraft) Validate() error {
	if err := checkLen("title", d.Title, 1, MaxTitleLen); err != nil {
		return err
	}
	if err := checkLen("summary", d.Summary, 1, MaxSummaryLen); err != nil {
		return err
	}
	if err := checkLen("content", d.Content, 1, MaxContentLen); err != nil {
		return err
	}
	if !d.Category.Valid() {
		return NewValidationError("category", "must be one of Develop, Recap")
	}
	if d.Thumbnail != "" {
		return checkThumbnail(d.Thumbnail)
	}
	return nil
}

// Validate checks the bounds of every field present in the patch.
func (p PostPatch) Validate() error {
	if p.Title != nil {
		if err := checkLen("title", *p.Title, 1, MaxTitleLen); err != nil {
			return err
		}
	}
	if p.Summary != nil {
		if err := checkLen("summary", *p.Summary, 1, MaxSummaryLen); err != nil {
			return err
		}
	}
	if p.Content != nil {
		if err := checkLen("content", *p.Content, 1, MaxContentLen); err != nil {
			return err
		}
	}
	if p.Category != nil && !p.Category.Valid() {
		return NewValidationError("category", "must be one of Develop, Recap")
	}
	if p.Thumbnail != nil {
		return checkThumbnail(*p.Thumbnail)
	}
	return nil
}

func checkLen(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min {
		return NewValidationError(field, "must not be empty")
	}
	if n > max {
		return NewValidationError(field, "is too long")
	}
	return nil
}

func checkThumbnail(raw string) error {
	if utf8.RuneCountInString(raw) > MaxThumbnailLen {
		return NewValidationError("thumbnail", "is too long")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NewValidationError("thumbnail", "must be an absolute http(s) URL")
	}
	return nil
}

// PostSummary is the listing projection of a post.
type PostSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
	CreatedAt string `json:"created_at"` // YYYY-MM-DD
	Likes     int64  `json:"likes_count"`
}

// PostDetail is the full read projection served for a single post.
type PostDetail struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Content   string   `json:"content"`
	Category  Category `json:"category"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	CreatedAt string   `json:"created_at"`
	Likes     int64    `json:"likes_count"`
}

// Summarize projects a post into a listing entry dated in loc. withAbstract
// keeps the summary text.
func (p Post) Summarize(loc *time.Location, withAbstract bool) PostSummary {
	s := PostSummary{
		ID:        p.ID,
		Title:     p.Title,
		CreatedAt: p.Date(loc),
		Likes:     p.Likes,
	}
	if withAbstract {
		s.Summary = p.Summary
	}
	return s
}

// Date is the calendar day of CreatedAt in loc, UTC when loc is nil.
func (p Post) Date(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return p.CreatedAt.In(loc).Format(DateLayout)
}

func (p Post) Detail(loc *time.Location) PostDetail {
	return PostDetail{
		ID:        p.ID,
		Title:     p.Title,
		Summary:   p.Summary,
		Content:   p.Content,
		Category:  p.Category,
		Thumbnail: p.Thumbnail,
		CreatedAt: p.Date(loc),
		Likes:     p.Likes,
	}
}

package domain

import (
	"fmt"
	"unicode/utf8"
)

// Field length limits enforced both here and by the database schema.
const (
	MaxTitleLength = 100
	MaxBodyLength  = 200
)

// Post-specific validation errors.
var (
	// ErrPostUserIDRequired is returned when a post has no user ID.
	ErrPostUserIDRequired = fmt.Errorf("%w: userId is required", ErrValidation)

	// ErrPostTitleRequired is returned when a post's title is empty.
	ErrPostTitleRequired = fmt.Errorf("%w: title is required", ErrValidation)

	// ErrPostBodyRequired is returned when a post's body is empty.
	ErrPostBodyRequired = fmt.Errorf("%w: body is required", ErrValidation)

	// ErrPostTitleTooLong is returned when a post's title exceeds MaxTitleLength.
	ErrPostTitleTooLong = fmt.Errorf(
		"%w: title must be at most %d characters", ErrValidation, MaxTitleLength)

	// ErrPostBodyTooLong is returned when a post's body exceeds MaxBodyLength.
	ErrPostBodyTooLong = fmt.Errorf(
		"%w: body must be at most %d characters", ErrValidation, MaxBodyLength)
)

// Post is the sole persisted entity: a user-authored piece of content.
// The ID is assigned by the store at creation and is never reused or mutated.
// The JSON field names are part of the public API contract.
type Post struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// PostPatch describes a partial update to a Post. Nil fields are left
// unchanged; there is no distinction between full-replace and partial-patch
// semantics.
type PostPatch struct {
	UserID *int64
	Title  *string
	Body   *string
}

// NewPost creates a Post with the given fields, validating the domain
// constraints. The ID is zero until the store assigns one.
func NewPost(userID int64, title, body string) (*Post, error) {
	post := &Post{
		UserID: userID,
		Title:  title,
		Body:   body,
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	return post, nil
}

// Validate checks the Post against the domain constraints.
// Returns an error wrapping ErrValidation if any field is invalid.
func (p *Post) Validate() error {
	if p.UserID == 0 {
		return ErrPostUserIDRequired
	}
	if p.Title == "" {
		return ErrPostTitleRequired
	}
	if utf8.RuneCountInString(p.Title) > MaxTitleLength {
		return ErrPostTitleTooLong
	}
	if p.Body == "" {
		return ErrPostBodyRequired
	}
	if utf8.RuneCountInString(p.Body) > MaxBodyLength {
		return ErrPostBodyTooLong
	}
	return nil
}

// Apply overwrites the fields present in the patch and revalidates.
// Fields absent from the patch keep their prior values.
func (p *Post) Apply(patch PostPatch) error {
	if patch.UserID != nil {
		p.UserID = *patch.UserID
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Body != nil {
		p.Body = *patch.Body
	}
	return p.Validate()
}

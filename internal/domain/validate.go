package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/juju/errors"
	"golang.org/x/text/unicode/norm"
)

const (
	MaxPostContent    = 5000
	MaxCommentContent = 2000
	MaxEditReason     = 255
)

// NormalizeContent returns s in NFC and checks it is non-blank and at most limit
// characters long.
func NormalizeContent(what, s string, limit int) (string, error) {
	s = norm.NFC.String(s)
	if strings.TrimSpace(s) == "" {
		return "", errors.BadRequestf("%s content cannot be empty", what)
	}
	if utf8.RuneCountInString(s) > limit {
		return "", errors.BadRequestf("%s content is too long", what)
	}
	return s, nil
}

// NormalizeEditReason applies the same rules as NormalizeContent but allows blank.
func NormalizeEditReason(s string) (string, error) {
	s = norm.NFC.String(s)
	if utf8.RuneCountInString(s) > MaxEditReason {
		return "", errors.BadRequestf("edit reason is too long")
	}
	return s, nil
}

func (t PostType) Validate() error {
	switch t {
	case PostTypeGeneral, PostTypeQuestion, PostTypeHighlight, PostTypeNews:
		return nil
	}
	return errors.BadRequestf("unknown post type %q", t)
}

func (t MediaType) Validate() error {
	switch t {
	case MediaTypeImage, MediaTypeVideo:
		return nil
	}
	return errors.BadRequestf("unknown media type %q", t)
}

func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleInfluencer, RoleAdmin:
		return nil
	}
	return errors.BadRequestf("unknown role %q", r)
}

// mediaTransitions is the one-way upload state machine.
var mediaTransitions = map[MediaStatus][]MediaStatus{
	MediaStatusUploading: {MediaStatusCompleted, MediaStatusFailed},
}

func (s MediaStatus) Validate() error {
	switch s {
	case MediaStatusUploading, MediaStatusCompleted, MediaStatusFailed:
		return nil
	}
	return errors.BadRequestf("unknown media status %q", s)
}

// Terminal reports whether no transition leaves s.
func (s MediaStatus) Terminal() bool {
	return len(mediaTransitions[s]) == 0
}

// CanTransition reports whether a media row in status s may move to next.
func (s MediaStatus) CanTransition(next MediaStatus) bool {
	for _, allowed := range mediaTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

package domain

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"unicode/utf8"

	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

var namePattern = regexp.MustCompile("^[a-z0-9_]*$")

func checkUsername(username string) error {
	if len(username) < 4 {
		return errorx.New(errorx.BadRequest, "Username too short (at least 4 characters)")
	}

	if len(username) > 32 {
		return errorx.New(errorx.BadRequest, "Username too long (at most 32 characters)")
	}

	if !namePattern.MatchString(username) {
		return errorx.New(errorx.BadRequest, "Username contains invalid characters")
	}

	return nil
}

func checkCommunityName(name string) error {
	if len(name) < 3 {
		return errorx.New(errorx.BadRequest, "Name too short (at least 3 characters)")
	}

	if len(name) > 64 {
		return errorx.New(errorx.BadRequest, "Name too long (at most 64 characters)")
	}

	if !namePattern.MatchString(name) {
		return errorx.New(errorx.BadRequest, "Name contains invalid characters")
	}

	return nil
}

func checkEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid email")
	}

	return nil
}

func checkPassword(password string) error {
	if len(password) < 8 {
		return errorx.New(errorx.BadRequest, "Password too short (at least 8 characters)")
	}

	// bcrypt ignores everything after 72 bytes.
	if len(password) > 72 {
		return errorx.New(errorx.BadRequest, "Password too long (at most 72 bytes)")
	}

	return nil
}

func checkText(field, s string, min, max int) error {
	n := utf8.RuneCountInString(s)
	if n < min {
		return errorx.New(errorx.BadRequest, "The %s is too short (at least %d characters)", field, min)
	}

	if n > max {
		return errorx.New(errorx.BadRequest, "The %s is too long (at most %d characters)", field, max)
	}

	return nil
}

// notFoundOrUnknown returns a NotFound error with msg if err is a missing
// record, otherwise it logs err and returns errorx.Unknown.
func notFoundOrUnknown(ctx context.Context, err error, msg, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.New(errorx.NotFound, msg)
	}

	xcontext.Logger(ctx).Errorf("Cannot %s: %v", action, err)
	return errorx.Unknown
}

// createRelation maps the duplicate key error of a relation insert, which
// happens when a concurrent request created the same relation first.
func createRelation(ctx context.Context, err error, msg, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errorx.New(errorx.AlreadyExists, msg)
	}

	xcontext.Logger(ctx).Errorf("Cannot %s: %v", action, err)
	return errorx.Unknown
}

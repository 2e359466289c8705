package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintForeignKey
	constraintCheck
)

// constraintSignatures lists, per kind, the translated gorm error and the
// driver message fragments used when no translator ran (lower case).
var constraintSignatures = []struct {
	kind      constraintKind
	sentinel  error
	fragments []string
}{
	{constraintUnique, gorm.ErrDuplicatedKey, []string{"duplicate key", "unique constraint", "sqlstate 23505"}},
	{constraintForeignKey, gorm.ErrForeignKeyViolated, []string{"foreign key constraint", "sqlstate 23503"}},
	{constraintCheck, gorm.ErrCheckConstraintViolated, []string{"check constraint", "sqlstate 23514"}},
}

func classifyConstraint(err error) constraintKind {
	if err == nil {
		return constraintNone
	}
	for _, sig := range constraintSignatures {
		if errors.Is(err, sig.sentinel) {
			return sig.kind
		}
	}

	msg := strings.ToLower(err.Error())
	for _, sig := range constraintSignatures {
		for _, fragment := range sig.fragments {
			if strings.Contains(msg, fragment) {
				return sig.kind
			}
		}
	}

	return constraintNone
}

func isUniqueConstraintViolation(err error) bool {
	return classifyConstraint(err) == constraintUnique
}

func isForeignKeyConstraintViolation(err error) bool {
	return classifyConstraint(err) == constraintForeignKey
}

func isCheckConstraintViolation(err error) bool {
	return classifyConstraint(err) == constraintCheck
}

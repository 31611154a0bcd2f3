package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"faqcenter/internal/repository"
)

const maxSlugLen = 100

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugSpacesRe   = regexp.MustCompile(`\s+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// GenerateSlug строит slug из английского текста вопроса:
// нижний регистр, мусорные символы вон, пробелы в дефисы, максимум 100 символов.
func GenerateSlug(question string) string {
	slug := strings.ToLower(strings.TrimSpace(question))
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugSpacesRe.ReplaceAllString(slug, "-")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")

	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}

	return slug
}

// ensureUniqueSlug разрешает коллизии суффиксами -1, -2, ...
// Итоговый slug вместе с суффиксом не выходит за maxSlugLen:
// база при необходимости укорачивается, колонка slug - VARCHAR(100).
func ensureUniqueSlug(ctx context.Context, repo repository.FAQRepository, baseSlug string) (string, error) {
	slug := baseSlug
	counter := 1

	for {
		exists, err := repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}

		suffix := fmt.Sprintf("-%d", counter)
		base := baseSlug
		if len(base)+len(suffix) > maxSlugLen {
			base = base[:maxSlugLen-len(suffix)]
		}
		slug = base + suffix
		counter++
	}
}

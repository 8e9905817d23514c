package usecase

import (
	"net/url"
	"strconv"
	"strings"

	"noshuff-backend/internal/playlist/domain"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePage reads the page query value. Empty means the first page.
func ParsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.InvalidPageError{Message: domain.MsgInvalidPageNumber}
	}
	if page < 1 {
		return 0, &domain.InvalidPageError{Message: domain.MsgPageNotPositive}
	}
	return page, nil
}

// ParsePageSize never fails: junk falls back to the default and large values are capped.
func ParsePageSize(raw string) int {
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultPageSize
	}
	return ClampPageSize(size)
}

func ClampPageSize(size int) int {
	switch {
	case size < 1:
		return DefaultPageSize
	case size > MaxPageSize:
		return MaxPageSize
	default:
		return size
	}
}

// PageLinks builds next/previous links from the absolute request URL by substituting page and page_size.
func PageLinks(requestURL *url.URL, page, pageSize, total int) (next, previous *string) {
	if page*pageSize < total {
		next = pageLink(requestURL, page+1, pageSize)
	}
	if page > 1 {
		previous = pageLink(requestURL, page-1, pageSize)
	}
	return next, previous
}

func pageLink(requestURL *url.URL, page, pageSize int) *string {
	u := *requestURL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}

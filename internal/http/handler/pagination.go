package handler

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/filter"
	"docvault/internal/repository"
	"docvault/internal/service"
)

// pageResponse is the list envelope shared by every collection endpoint.
type pageResponse[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func queryValues(c *fiber.Ctx) url.Values {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return url.Values{}
	}
	return q
}

// parseList reads filters, ordering, search and the page from the query string.
func parseList(c *fiber.Ctx, set filter.Set) (repository.ListQuery, filter.Page, url.Values, error) {
	q := queryValues(c)
	lq, page, err := set.Parse(q)
	return lq, page, q, err
}

// writePage renders one page of res, or 404 INVALID_PAGE when the page lies
// past the last one. Page 1 is always valid, even when empty.
func writePage[S, T any](c *fiber.Ctx, q url.Values, page filter.Page, res *service.ListResult[S], convert func(S) T) error {
	if page.Number > 1 && page.Offset() >= res.Total {
		return writeError(c, fiber.StatusNotFound, "INVALID_PAGE", "invalid page")
	}

	out := pageResponse[T]{
		Count:   res.Total,
		Results: make([]T, 0, len(res.Items)),
	}
	for _, item := range res.Items {
		out.Results = append(out.Results, convert(item))
	}
	if page.Offset()+len(res.Items) < res.Total {
		out.Next = pageLink(c, q, page.Number+1)
	}
	if page.Number > 1 {
		out.Previous = pageLink(c, q, page.Number-1)
	}
	return c.JSON(out)
}

// pageLink is the absolute URL of the current request moved to page n. The
// first page is linked without a page parameter.
func pageLink(c *fiber.Ctx, q url.Values, n int) *string {
	next := url.Values{}
	for k, v := range q {
		next[k] = v
	}
	if n <= 1 {
		next.Del(filter.PageParam)
	} else {
		next.Set(filter.PageParam, strconv.Itoa(n))
	}

	link := c.BaseURL() + c.Path()
	if enc := next.Encode(); enc != "" {
		link += "?" + enc
	}
	return &link
}

func identity[T any](v T) T { return v }

// parseID reads a positive integer path parameter.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

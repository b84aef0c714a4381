package repository

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/landmark/pkg/pagination"
	"github.com/JaimeStill/landmark/pkg/query"
)

// QueryPage runs the count and page queries for qb concurrently and
// assembles a PageResult. page must already be normalized.
func QueryPage[T any](
	ctx context.Context,
	q Querier,
	qb *query.Builder,
	page pagination.PageRequest,
	scan ScanFunc[T],
) (*pagination.PageResult[T], error) {
	var (
		total int
		items []T
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		countSQL, countArgs := qb.BuildCount()
		n, err := Count(gctx, q, countSQL, countArgs)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		total = n
		return nil
	})

	g.Go(func() error {
		pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
		rows, err := QueryMany(gctx, q, pageSQL, pageArgs, scan)
		if err != nil {
			return fmt.Errorf("page: %w", err)
		}
		items = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

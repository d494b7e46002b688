package query

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParsePageFromGin lê page e limit da query string, com os limites de NewPage.
func ParsePageFromGin(c *gin.Context) Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSize)))
	return NewPage(page, size)
}

func Execute[DB any, Domain any](
	q *Query[DB],
	page Page,
	converter func(*DB) (*Domain, error),
) (*Result[*Domain], error) {
	return Paginate(q, page, converter)
}

func ExecuteAll[DB any, Domain any](
	q *Query[DB],
	converter func(*DB) (*Domain, error),
) ([]*Domain, error) {
	rows, err := q.Find()
	if err != nil {
		return nil, err
	}
	return convertRows(rows, converter)
}

func ExecuteWithLimit[DB any, Domain any](
	q *Query[DB],
	limit int,
	converter func(*DB) (*Domain, error),
) ([]*Domain, error) {
	rows, err := q.FindWithLimit(limit)
	if err != nil {
		return nil, err
	}
	return convertRows(rows, converter)
}

func convertRows[DB any, Domain any](rows []DB, converter func(*DB) (*Domain, error)) ([]*Domain, error) {
	items := make([]*Domain, 0, len(rows))
	for i := range rows {
		item, err := converter(&rows[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

package query

const (
	defaultSize = 10
	maxSize     = 100
)

type Page struct {
	Number int
	Size   int
}

func NewPage(number, size int) Page {
	p := Page{Number: number, Size: size}
	p.normalize()
	return p
}

func (p *Page) normalize() {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Size
}

type Result[T any] struct {
	Data       []T
	Page       int
	Size       int
	Total      int64
	TotalPages int
}

// Paginate conta o total com os mesmos escopos e busca só a fatia da página.
func Paginate[DBModel any, Domain any](
	q *Query[DBModel],
	page Page,
	converter func(*DBModel) (*Domain, error),
) (*Result[*Domain], error) {
	page.normalize()

	total, err := q.Count()
	if err != nil {
		return nil, err
	}

	var rows []DBModel
	if err := q.ordered().Offset(page.offset()).Limit(page.Size).Find(&rows).Error; err != nil {
		return nil, err
	}

	items, err := convertRows(rows, converter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(page.Size) - 1) / int64(page.Size))
	if totalPages == 0 {
		totalPages = 1
	}

	return &Result[*Domain]{
		Data:       items,
		Page:       page.Number,
		Size:       page.Size,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

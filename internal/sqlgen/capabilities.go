package sqlgen

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/sqlcontainer/internal/dialect"
	"github.com/roach88/sqlcontainer/internal/query"
)

// Select is a SELECT split into rendered clauses, handed to a Paginator.
type Select struct {
	Columns string // projection, "*" when none was requested
	From    string // quoted table
	Where   string // predicate without the WHERE keyword, "" for none
	OrderBy string // sort keys without the ORDER BY keyword, "" for none
	Quote   func(ident string) string
}

// String renders the unpaged statement.
func (s Select) String() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(s.Columns)
	sb.WriteString(" FROM ")
	sb.WriteString(s.From)
	if s.Where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(s.Where)
	}
	if s.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(s.OrderBy)
	}
	return sb.String()
}

// Paginator restricts a SELECT to a paging window. It is only called with a
// positive page length.
type Paginator func(sel Select, page query.Page) string

// Capabilities are the dialect-specific parts of SQL generation. The zero
// value quotes nothing and pages with LIMIT/OFFSET.
type Capabilities struct {
	QuoteStart string
	QuoteEnd   string
	Paginate   Paginator
}

// Quote wraps ident in the quote characters, doubling any embedded closing
// quote.
func (c Capabilities) Quote(ident string) string {
	if c.QuoteStart == "" && c.QuoteEnd == "" {
		return ident
	}
	end := c.QuoteEnd
	if end == "" {
		end = c.QuoteStart
	}
	return c.QuoteStart + strings.ReplaceAll(ident, end, end+end) + end
}

func (c Capabilities) paginator() Paginator {
	if c.Paginate == nil {
		return LimitOffset
	}
	return c.Paginate
}

// LimitOffset appends `LIMIT <len> OFFSET <off>`.
func LimitOffset(sel Select, page query.Page) string {
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", sel, page.Length, page.Offset)
}

// OffsetFetch appends the SQL:2008 `OFFSET <off> ROWS FETCH NEXT <len> ROWS
// ONLY` clause.
func OffsetFetch(sel Select, page query.Page) string {
	return fmt.Sprintf("%s OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", sel, page.Offset, page.Length)
}

// RowNum wraps the query in Oracle's ROWNUM idiom and keeps rows
// off+1 through off+len.
func RowNum(sel Select, page query.Page) string {
	rownum := sel.quote("rownum")
	return fmt.Sprintf("SELECT * FROM (SELECT x.*, ROWNUM AS %s FROM (%s) x) WHERE %s BETWEEN %d AND %d",
		rownum, sel, rownum, page.Offset+1, lastRow(page))
}

// RowNumber numbers rows with ROW_NUMBER() OVER the sort keys, or an
// arbitrary order when there are none, and keeps rows off+1 through off+len.
func RowNumber(sel Select, page query.Page) string {
	order := sel.OrderBy
	if order == "" {
		order = "(SELECT NULL)"
	}
	inner := sel
	inner.OrderBy = ""
	inner.Columns = fmt.Sprintf("ROW_NUMBER() OVER (ORDER BY %s) AS %s, %s", order, sel.quote("rownum"), sel.Columns)
	rownum := sel.quote("rownum")
	return fmt.Sprintf("SELECT * FROM (%s) x WHERE %s BETWEEN %d AND %d ORDER BY %s",
		inner, rownum, page.Offset+1, lastRow(page), rownum)
}

// lastRow returns the 1-based number of the page's last row, saturating at
// math.MaxInt.
func lastRow(page query.Page) int {
	if page.Length > 0 && page.Offset > math.MaxInt-page.Length {
		return math.MaxInt
	}
	return page.Offset + page.Length
}

func (s Select) quote(ident string) string {
	if s.Quote == nil {
		return ident
	}
	return s.Quote(ident)
}

var (
	ansi     = Capabilities{QuoteStart: `"`, QuoteEnd: `"`, Paginate: LimitOffset}
	backtick = Capabilities{QuoteStart: "`", QuoteEnd: "`", Paginate: LimitOffset}
)

// Profile returns the built-in capabilities for d. Unknown dialects get the
// Default profile.
func Profile(d dialect.Dialect) Capabilities {
	switch d {
	case dialect.MySQL, dialect.MariaDB:
		return backtick
	case dialect.Derby:
		c := ansi
		c.Paginate = OffsetFetch
		return c
	case dialect.Oracle:
		c := ansi
		c.Paginate = RowNum
		return c
	case dialect.MSSQL:
		c := ansi
		c.Paginate = RowNumber
		return c
	default:
		return ansi
	}
}

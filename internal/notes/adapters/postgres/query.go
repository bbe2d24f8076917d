package postgres

import (
	"fmt"
	"strings"

	"gonotes/internal/notes/domain/entities"
)

const noteColumns = "id, title, content, category, is_favorite, created_at, updated_at"

// SQLQuery - текст запроса с позиционными аргументами.
type SQLQuery struct {
	SQL  string
	Args []any
}

// whereClause - фрагмент WHERE и его аргументы, построенные из одной спецификации фильтра.
type whereClause struct {
	sql  string
	args []any
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildWhere(filter entities.NoteFilter) whereClause {
	var (
		conds []string
		args  []any
	)

	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", len(args), len(args)))
	}

	if filter.FavoriteOnly {
		conds = append(conds, "is_favorite = TRUE")
	}

	if len(conds) == 0 {
		return whereClause{}
	}
	return whereClause{sql: " WHERE " + strings.Join(conds, " AND "), args: args}
}

// BuildListQueries строит запрос страницы и запрос общего количества.
// Оба используют один и тот же фрагмент WHERE, поэтому total всегда соответствует странице.
func BuildListQueries(query entities.ListQuery) (page SQLQuery, count SQLQuery) {
	where := buildWhere(query.Filter)

	countArgs := make([]any, len(where.args))
	copy(countArgs, where.args)
	count = SQLQuery{
		SQL:  "SELECT COUNT(*) FROM notes" + where.sql,
		Args: countArgs,
	}

	pageArgs := make([]any, 0, len(where.args)+2)
	pageArgs = append(pageArgs, where.args...)
	pageArgs = append(pageArgs, query.Limit, query.Offset())
	page = SQLQuery{
		SQL: fmt.Sprintf("SELECT %s FROM notes%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
			noteColumns, where.sql, len(where.args)+1, len(where.args)+2),
		Args: pageArgs,
	}

	return page, count
}

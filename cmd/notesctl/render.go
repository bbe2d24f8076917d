package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"gonotes/internal/notes/client"
	"gonotes/internal/notes/domain/entities"
)

const (
	timeLayout    = "2006-01-02 15:04"
	favoriteMark  = "*"
	previewLength = 40
)

// renderer выводит заметки в табличном виде.
type renderer struct {
	w        io.Writer
	favorite *color.Color
	warning  *color.Color
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{
		w:        w,
		favorite: color.New(color.FgYellow, color.Bold),
		warning:  color.New(color.FgRed),
	}
}

func (r *renderer) page(st client.State) error {
	if len(st.Notes) == 0 {
		_, err := fmt.Fprintln(r.w, ErrNothingToShow)
		return err
	}

	table := tablewriter.NewWriter(r.w)
	table.SetHeader([]string{"ID", "", "Title", "Category", "Content", "Updated"})
	table.SetAutoWrapText(false)
	for _, n := range st.Notes {
		table.Append(r.row(n))
	}
	table.Render()

	_, err := fmt.Fprintf(r.w, "page %d of %d, %d notes total\n", st.Page, st.TotalPages(), st.Total)
	return err
}

func (r *renderer) row(n *entities.Note) []string {
	mark := ""
	if n.IsFavorite {
		mark = r.favorite.Sprint(favoriteMark)
	}
	return []string{
		strconv.FormatInt(n.ID, 10),
		mark,
		n.Title,
		n.Category,
		preview(n.Content),
		n.UpdatedAt.Local().Format(timeLayout),
	}
}

func (r *renderer) note(n *entities.Note) error {
	if n == nil {
		return nil
	}
	favorite := "no"
	if n.IsFavorite {
		favorite = r.favorite.Sprint("yes")
	}
	_, err := fmt.Fprintf(r.w, "#%d %s [%s] favorite: %s\ncreated %s, updated %s\n\n%s\n\n",
		n.ID, n.Title, n.Category, favorite,
		n.CreatedAt.Local().Format(time.RFC3339),
		n.UpdatedAt.Local().Format(time.RFC3339),
		n.Content)
	return err
}

func (r *renderer) fieldErrors(fields []entities.FieldError) {
	for _, f := range fields {
		_, _ = r.warning.Fprintf(r.w, "%s: %s\n", f.Field, f.Message)
	}
}

func (r *renderer) warn(err error) {
	_, _ = r.warning.Fprintf(r.w, "warning: %v\n", err)
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength-3]) + "..."
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/worthboard/internal/domain/model"
	"github.com/okian/worthboard/internal/domain/stats"
	"github.com/okian/worthboard/internal/domain/types"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printWarnings(w io.Writer, warnings []model.Warning) {
	for _, wr := range warnings {
		fmt.Fprintf(w, "warning: %s\n", wr.Message)
	}
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func optID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func printScoredPosts(out, errOut io.Writer, asJSON bool, tbl types.Table[types.ScoredPostRow]) error {
	if asJSON {
		return writeJSON(out, tbl)
	}
	printWarnings(errOut, tbl.Warnings)
	rows := make([][]string, len(tbl.Rows))
	for i, r := range tbl.Rows {
		rows[i] = []string{
			r.Title, r.Author, num(r.Worth), num(r.WorthPercentage),
			strconv.Itoa(r.Comments), strconv.Itoa(r.Likes), r.Date, optID(r.PostID),
		}
	}
	return renderTable(out, []string{"Title", "Author", "Worth", "Worth %", "Comments", "Likes", "Date", "Post ID"}, rows)
}

func printPeople(out, errOut io.Writer, asJSON bool, tbl types.Table[types.PersonRow]) error {
	if asJSON {
		return writeJSON(out, tbl)
	}
	printWarnings(errOut, tbl.Warnings)
	headers := []string{"Author", "Worth", "Worth %"}
	withPayment := len(tbl.Rows) > 0 && tbl.Rows[0].RoundedPayment != nil
	if withPayment {
		headers = append(headers, "Payment")
	}
	rows := make([][]string, len(tbl.Rows))
	for i, r := range tbl.Rows {
		rows[i] = []string{r.Author, num(r.Worth), num(r.WorthPercentage)}
		if withPayment && r.RoundedPayment != nil {
			rows[i] = append(rows[i], num(*r.RoundedPayment))
		}
	}
	return renderTable(out, headers, rows)
}

func printEvents(out, errOut io.Writer, asJSON bool, tbl types.Table[types.EventRow]) error {
	if asJSON {
		return writeJSON(out, tbl)
	}
	printWarnings(errOut, tbl.Warnings)
	rows := make([][]string, len(tbl.Rows))
	for i, r := range tbl.Rows {
		rows[i] = []string{
			r.EventTitle, num(r.Worth), strconv.Itoa(r.Attendees), strconv.Itoa(r.Likes),
			strconv.Itoa(r.Comments), strconv.FormatFloat(r.LengthMinutes, 'f', 1, 64),
			r.Date, r.Author, strings.Join(r.AuthorRoles, ", "),
		}
	}
	return renderTable(out, []string{"Event", "Worth", "Attendees", "Likes", "Comments", "Minutes", "Date", "Author", "Roles"}, rows)
}

func printStats(out io.Writer, asJSON bool, s stats.Summary) error {
	if asJSON {
		return writeJSON(out, s)
	}
	overview := [][]string{
		{"Total posts", strconv.Itoa(s.TotalPosts)},
		{"Total events", strconv.Itoa(s.TotalEvents)},
		{"Top poster", fmt.Sprintf("%s (%d)", s.TopPoster, s.TopPosterPosts)},
		{"Members with a post", strconv.Itoa(s.ActivePosters)},
		{"Community members", strconv.Itoa(s.MemberCount)},
	}
	if err := renderTable(out, []string{"Metric", "Value"}, overview); err != nil {
		return err
	}

	spaces := make([][]string, len(s.BySpace))
	for i, c := range s.BySpace {
		spaces[i] = []string{c.Label, strconv.Itoa(c.Count)}
	}
	if err := renderTable(out, []string{"Space", "Posts"}, spaces); err != nil {
		return err
	}

	kinds := make([][]string, len(s.ByKind))
	for i, k := range s.ByKind {
		kinds[i] = []string{k.Kind, strconv.Itoa(k.Count), num(k.Percentage)}
	}
	if err := renderTable(out, []string{"Post type", "Posts", "%"}, kinds); err != nil {
		return err
	}

	months := make([][]string, len(s.MonthlyAverages))
	for i, m := range s.MonthlyAverages {
		months[i] = []string{m.Month, strconv.Itoa(m.ActiveDays), num(m.PostsPerDay), num(m.LikesPerDay), num(m.CommentsPerDay)}
	}
	return renderTable(out, []string{"Month", "Active days", "Posts/day", "Likes/day", "Comments/day"}, months)
}
